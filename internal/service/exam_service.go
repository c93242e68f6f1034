package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/studyflow/planner-backend/internal/logger"
	"github.com/studyflow/planner-backend/internal/model"
	"github.com/studyflow/planner-backend/internal/repository"
)

// Domain Errors
var (
	ErrExamNotFound = errors.New("exam not found")
)

// ExamService handles exam business logic. It deliberately does not touch
// the plan: size and mode edits only mark the stored plan stale, and the
// user decides when to regenerate.
type ExamService struct {
	examRepo *repository.ExamRepository
	log      zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(examRepo *repository.ExamRepository, log zerolog.Logger) *ExamService {
	return &ExamService{
		examRepo: examRepo,
		log:      logger.Component(log, "exam_service"),
	}
}

// GetByID retrieves an exam by its UUID.
func (s *ExamService) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	ex, err := s.examRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}
	return ex, nil
}

// List retrieves all exams ordered by exam date.
func (s *ExamService) List(ctx context.Context) ([]model.Exam, error) {
	exams, err := s.examRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if exams == nil {
		exams = []model.Exam{}
	}
	return exams, nil
}

// Create registers a new exam from a validated request.
func (s *ExamService) Create(ctx context.Context, req *model.CreateExamRequest) (*model.Exam, error) {
	ex := &model.Exam{
		Name:           req.Name,
		ExamDate:       req.ExamDate,
		StudyStartDate: req.StudyStartDate,
		Mode:           req.Mode,
		TotalUnits:     req.TotalUnits,
		Rate:           req.Rate,
		KnowledgeLevel: req.KnowledgeLevel,
		Priority:       req.Priority,
		ReviewDays:     req.ReviewDays,
		Color:          req.Color,
	}
	if ex.KnowledgeLevel == 0 {
		ex.KnowledgeLevel = 1
	}
	if ex.Priority == "" {
		ex.Priority = model.PriorityMedium
	}
	if ex.Color == "" {
		ex.Color = "#4f46e5"
	}

	if err := s.examRepo.Create(ctx, ex); err != nil {
		s.log.Error().Err(err).Str("name", ex.Name).Msg("failed to create exam")
		return nil, err
	}
	return ex, nil
}

// Update applies a partial edit. Changing the material size or measurement
// mode disconnects the exam from the generated plan (plan_stale), since the
// existing unit numbering no longer means anything.
func (s *ExamService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateExamRequest) (*model.Exam, error) {
	ex, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		ex.Name = req.Name
	}
	if req.ExamDate != nil {
		ex.ExamDate = *req.ExamDate
	}
	if req.StudyStartDate != nil {
		ex.StudyStartDate = req.StudyStartDate
	}
	if req.Mode != "" && req.Mode != ex.Mode {
		ex.Mode = req.Mode
		ex.PlanStale = true
	}
	if req.TotalUnits != nil && *req.TotalUnits != ex.TotalUnits {
		ex.TotalUnits = *req.TotalUnits
		ex.PlanStale = true
	}
	if req.Rate != nil {
		ex.Rate = *req.Rate
	}
	if req.KnowledgeLevel != nil {
		ex.KnowledgeLevel = *req.KnowledgeLevel
	}
	if req.Priority != "" {
		ex.Priority = req.Priority
	}
	if req.ReviewDays != nil {
		ex.ReviewDays = req.ReviewDays
	}
	if req.Color != "" {
		ex.Color = req.Color
	}

	if err := s.examRepo.Update(ctx, ex); err != nil {
		s.log.Error().Err(err).Str("exam_id", id.String()).Msg("failed to update exam")
		return nil, err
	}
	return ex, nil
}

// Delete removes an exam along with its plan entries and logged sessions.
func (s *ExamService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.examRepo.Delete(ctx, id)
}
