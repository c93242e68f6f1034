package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/studyflow/planner-backend/internal/config"
	"github.com/studyflow/planner-backend/internal/logger"
	"github.com/studyflow/planner-backend/internal/model"
	"github.com/studyflow/planner-backend/internal/planner"
	"github.com/studyflow/planner-backend/internal/repository"
)

// Domain Errors
var (
	ErrDayNotInPlan       = errors.New("date is not part of the generated plan")
	ErrAssignmentNotFound = errors.New("no assignment for that exam on that day")
	ErrAssignmentLocked   = errors.New("completed assignments can only be unchecked, not replanned away")
)

// PlanEvent is published on Redis PubSub whenever the stored plan changes,
// so connected clients can refetch without polling.
type PlanEvent struct {
	Event string    `json:"event"`
	Date  string    `json:"date,omitempty"`
	At    time.Time `json:"at"`
}

// PlanService orchestrates the allocation engine around persistence,
// caching, and change broadcast. The engine itself is pure; every side
// effect lives here.
type PlanService struct {
	planRepo    *repository.PlanRepository
	examRepo    *repository.ExamRepository
	settingsSvc *SettingService
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewPlanService creates a new PlanService.
func NewPlanService(
	planRepo *repository.PlanRepository,
	examRepo *repository.ExamRepository,
	settingsSvc *SettingService,
	rdb *redis.Client,
	log zerolog.Logger,
) *PlanService {
	return &PlanService{
		planRepo:    planRepo,
		examRepo:    examRepo,
		settingsSvc: settingsSvc,
		rdb:         rdb,
		log:         logger.Component(log, "plan_service"),
	}
}

// GetPlan returns the stored calendar, serving from the Redis cache when
// possible.
func (s *PlanService) GetPlan(ctx context.Context) ([]model.StudyDay, error) {
	cached, err := s.rdb.Get(ctx, config.CacheKey.PlanDaysKey()).Result()
	if err == nil {
		var days []model.StudyDay
		if err := json.Unmarshal([]byte(cached), &days); err == nil {
			return days, nil
		}
		// Corrupt cache entry: fall through to the database.
		s.rdb.Del(ctx, config.CacheKey.PlanDaysKey())
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("plan cache read failed")
	}

	days, err := s.planRepo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if days == nil {
		days = []model.StudyDay{}
	}
	s.cachePlan(ctx, days)
	return days, nil
}

// Regenerate rebuilds the plan from today forward. Settled days before
// today are never rewritten. Returns planner.ErrNothingToPlan untouched
// when the exam list is empty; the caller decides how to present that.
func (s *PlanService) Regenerate(ctx context.Context, mode planner.Mode) ([]model.StudyDay, error) {
	exams, err := s.examRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	existing, err := s.planRepo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.settingsSvc.PlannerSettings(ctx)
	if err != nil {
		return nil, err
	}

	today := planner.DateOnly(time.Now().UTC())
	days, err := planner.GenerateFullPlan(exams, existing, settings, mode, today)
	if err != nil {
		return nil, err
	}

	if err := s.planRepo.ReplaceFrom(ctx, today, days); err != nil {
		s.log.Error().Err(err).Msg("failed to persist regenerated plan")
		return nil, err
	}
	if err := s.examRepo.ClearPlanStale(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear plan_stale markers")
	}

	s.log.Info().
		Int("exams", len(exams)).
		Int("days", len(days)).
		Msg("plan regenerated")

	s.cachePlan(ctx, days)
	s.publish(ctx, PlanEvent{Event: "plan_regenerated", At: time.Now().UTC()})
	return days, nil
}

// EditDay updates one day's availability or hour budget. An hour edit marks
// the day manually modified so regeneration treats it as explicit intent.
func (s *PlanService) EditDay(ctx context.Context, date time.Time, req *model.UpdateDayRequest) ([]model.StudyDay, error) {
	all, day, err := s.loadDay(ctx, date)
	if err != nil {
		return nil, err
	}

	if req.Available != nil {
		day.Available = *req.Available
	}
	if req.AvailableHours != nil {
		day.AvailableHours = *req.AvailableHours
		day.ManuallyModified = true
	}

	return s.applyAndPersist(ctx, *day, all, planner.DateOnly(day.Date))
}

// UpdateAssignment mutates one exam's workload on one day: completion
// toggles, logged hours, a corrected unit list, or a move to another date.
// A completion with logged hours triggers forward recalculation for that
// exam only.
func (s *PlanService) UpdateAssignment(ctx context.Context, date time.Time, examID uuid.UUID, req *model.UpdateAssignmentRequest) ([]model.StudyDay, error) {
	all, day, err := s.loadDay(ctx, date)
	if err != nil {
		return nil, err
	}

	a := day.AssignmentFor(examID)
	if a == nil {
		return nil, ErrAssignmentNotFound
	}

	if len(req.Units) > 0 {
		a.Units = req.Units
	}
	if req.ActualHours > 0 {
		a.ActualHours = req.ActualHours
	}
	if req.Completed != nil {
		if *req.Completed {
			a.Completed = true
		} else {
			// Unchecking keeps the assigned unit list intact; only the
			// realized state is cleared.
			a.Completed = false
			a.ActualHours = 0
		}
	}

	from := planner.DateOnly(day.Date)
	if req.MoveToDate != nil {
		if a.Completed {
			return nil, ErrAssignmentLocked
		}
		target, err := time.Parse("2006-01-02", *req.MoveToDate)
		if err != nil {
			return nil, err
		}
		target = planner.DateOnly(target)
		if moved := s.moveAssignment(all, day, examID, target); !moved {
			return nil, ErrDayNotInPlan
		}
		// A move to an earlier date widens the persisted slice.
		if target.Before(from) {
			from = target
		}
	}

	return s.applyAndPersist(ctx, *day, all, from)
}

// ─── Internals ──────────────────────────────────────────────────────

func (s *PlanService) loadDay(ctx context.Context, date time.Time) ([]model.StudyDay, *model.StudyDay, error) {
	all, err := s.planRepo.LoadAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	date = planner.DateOnly(date)
	for i := range all {
		if planner.SameDate(all[i].Date, date) {
			return all, &all[i], nil
		}
	}
	return nil, nil, ErrDayNotInPlan
}

func (s *PlanService) moveAssignment(all []model.StudyDay, from *model.StudyDay, examID uuid.UUID, target time.Time) bool {
	var dest *model.StudyDay
	for i := range all {
		if planner.SameDate(all[i].Date, target) {
			dest = &all[i]
			break
		}
	}
	if dest == nil {
		return false
	}

	a := from.AssignmentFor(examID)
	if a == nil {
		return false
	}
	moved := *a

	for i := range from.Assignments {
		if from.Assignments[i].ExamID == examID {
			from.Assignments = append(from.Assignments[:i], from.Assignments[i+1:]...)
			break
		}
	}
	if existing := dest.AssignmentFor(examID); existing != nil && !existing.Completed {
		// Merge into the target day's slot rather than duplicating.
		existing.Units = append(existing.Units, moved.Units...)
		existing.PlannedHours += moved.PlannedHours
		return true
	}
	dest.Assignments = append(dest.Assignments, moved)
	return true
}

// applyAndPersist runs the engine's incremental path over the edited day,
// stores the resulting slice from the pivot date forward in one
// transaction, and broadcasts the change.
func (s *PlanService) applyAndPersist(ctx context.Context, day model.StudyDay, all []model.StudyDay, from time.Time) ([]model.StudyDay, error) {
	exams, err := s.examRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.settingsSvc.PlannerSettings(ctx)
	if err != nil {
		return nil, err
	}

	today := planner.DateOnly(time.Now().UTC())
	updated := planner.ApplyDayEdit(day, all, exams, settings, today)

	if err := s.planRepo.ReplaceFrom(ctx, from, updated); err != nil {
		s.log.Error().Err(err).Time("from", from).Msg("failed to persist day edit")
		return nil, err
	}

	s.cachePlan(ctx, updated)
	s.publish(ctx, PlanEvent{
		Event: "day_updated",
		Date:  from.Format("2006-01-02"),
		At:    time.Now().UTC(),
	})
	return updated, nil
}

func (s *PlanService) cachePlan(ctx context.Context, days []model.StudyDay) {
	payload, err := json.Marshal(days)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.PlanDaysKey(), payload, 0).Err(); err != nil {
		s.log.Warn().Err(err).Msg("plan cache write failed")
	}
}

func (s *PlanService) publish(ctx context.Context, ev PlanEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := s.rdb.Publish(ctx, config.CacheKey.PlanUpdatesChannel(), payload).Err(); err != nil {
		s.log.Warn().Err(err).Msg("plan event publish failed")
	}
}
