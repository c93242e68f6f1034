package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/studyflow/planner-backend/internal/config"
	"github.com/studyflow/planner-backend/internal/logger"
	"github.com/studyflow/planner-backend/internal/model"
	"github.com/studyflow/planner-backend/internal/repository"
)

// SessionService accepts focus-timer session logs. Writes are queued to
// Redis and flushed to Postgres by the ingest worker, so the timer client
// gets an acknowledgement without waiting on the database.
type SessionService struct {
	sessionRepo *repository.SessionRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessionRepo *repository.SessionRepository, rdb *redis.Client, log zerolog.Logger) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		rdb:         rdb,
		log:         logger.Component(log, "session_service"),
	}
}

// Enqueue pushes a logged session onto the ingest queue. If Redis is
// unreachable the session is written synchronously instead of being lost.
func (s *SessionService) Enqueue(ctx context.Context, req *model.LogSessionRequest) error {
	session := &model.StudySession{
		ExamID:          req.ExamID,
		StartedAt:       req.StartedAt.UTC(),
		DurationMinutes: req.DurationMinutes,
		Units:           req.Units,
		Note:            req.Note,
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.StudySessionQueue, payload).Err(); err != nil {
		s.log.Warn().Err(err).Msg("session queue unavailable, inserting directly")
		return s.sessionRepo.Insert(ctx, session)
	}
	return nil
}

// ListByExam returns an exam's logged sessions, most recent first.
func (s *SessionService) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.StudySession, error) {
	sessions, err := s.sessionRepo.ListByExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []model.StudySession{}
	}
	return sessions, nil
}

// ListRange returns logged sessions inside [from, to).
func (s *SessionService) ListRange(ctx context.Context, from, to time.Time) ([]model.StudySession, error) {
	sessions, err := s.sessionRepo.ListRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []model.StudySession{}
	}
	return sessions, nil
}
