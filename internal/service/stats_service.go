package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
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

const statsCacheTTL = 5 * time.Minute

// StatsService derives progress numbers from the stored plan and the
// logged study sessions. All figures are computed on read; the plan is
// the single source of truth for unit completion.
type StatsService struct {
	examRepo    *repository.ExamRepository
	planRepo    *repository.PlanRepository
	sessionRepo *repository.SessionRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewStatsService creates a new StatsService.
func NewStatsService(
	examRepo *repository.ExamRepository,
	planRepo *repository.PlanRepository,
	sessionRepo *repository.SessionRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *StatsService {
	return &StatsService{
		examRepo:    examRepo,
		planRepo:    planRepo,
		sessionRepo: sessionRepo,
		rdb:         rdb,
		log:         logger.Component(log, "stats_service"),
	}
}

// Overview computes the progress snapshot across all exams.
func (s *StatsService) Overview(ctx context.Context) (*model.StatsOverview, error) {
	exams, err := s.examRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	days, err := s.planRepo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	minutes, err := s.sessionRepo.TotalMinutesByExam(ctx)
	if err != nil {
		return nil, err
	}

	today := planner.DateOnly(time.Now().UTC())
	overview := &model.StatsOverview{Exams: make([]model.ExamStats, 0, len(exams))}
	for i := range exams {
		st := s.computeExamStats(&exams[i], days, minutes[exams[i].ID], today)
		overview.Exams = append(overview.Exams, st)
		overview.TotalPlannedHours += st.PlannedHours
		overview.TotalLoggedMinutes += st.LoggedMinutes
		s.cacheExamStats(ctx, st)
	}
	return overview, nil
}

// ExamStats returns one exam's snapshot, serving from cache when fresh.
func (s *StatsService) ExamStats(ctx context.Context, examID uuid.UUID) (*model.ExamStats, error) {
	cached, err := s.rdb.Get(ctx, config.CacheKey.ExamStatsKey(examID.String())).Result()
	if err == nil {
		var st model.ExamStats
		if err := json.Unmarshal([]byte(cached), &st); err == nil {
			return &st, nil
		}
	}

	ex, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}
	days, err := s.planRepo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	minutes, err := s.sessionRepo.TotalMinutesByExam(ctx)
	if err != nil {
		return nil, err
	}

	st := s.computeExamStats(ex, days, minutes[examID], planner.DateOnly(time.Now().UTC()))
	s.cacheExamStats(ctx, st)
	return &st, nil
}

func (s *StatsService) computeExamStats(ex *model.Exam, days []model.StudyDay, loggedMinutes int, today time.Time) model.ExamStats {
	completed := make(map[int]bool)
	scheduledByNow := make(map[int]bool)
	var plannedHours, completedHours float64

	for i := range days {
		a := days[i].AssignmentFor(ex.ID)
		if a == nil {
			continue
		}
		plannedHours += a.PlannedHours
		if a.Completed {
			completedHours += a.ActualHours
			for _, u := range a.Units {
				if u >= 1 && u <= ex.TotalUnits {
					completed[u] = true
				}
			}
		}
		if days[i].Date.Before(today) {
			for _, u := range a.Units {
				if u >= 1 && u <= ex.TotalUnits {
					scheduledByNow[u] = true
				}
			}
		}
	}

	st := model.ExamStats{
		ExamID:         ex.ID,
		Name:           ex.Name,
		TotalUnits:     ex.TotalUnits,
		CompletedUnits: len(completed),
		RemainingUnits: ex.TotalUnits - len(completed),
		PlannedHours:   math.Round(plannedHours*10) / 10,
		CompletedHours: math.Round(completedHours*10) / 10,
		LoggedMinutes:  loggedMinutes,
		DaysUntilExam:  int(planner.DateOnly(ex.ExamDate).Sub(today).Hours() / 24),
		OnTrack:        len(completed) >= len(scheduledByNow),
	}
	if ex.TotalUnits > 0 {
		st.ProgressPercent = math.Round(float64(len(completed))/float64(ex.TotalUnits)*1000) / 10
	}
	return st
}

func (s *StatsService) cacheExamStats(ctx context.Context, st model.ExamStats) {
	payload, err := json.Marshal(st)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.ExamStatsKey(st.ExamID.String()), payload, statsCacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Msg("stats cache write failed")
	}
}
