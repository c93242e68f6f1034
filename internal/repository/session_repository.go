package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studyflow/planner-backend/internal/model"
)

// SessionRepository handles logged study-session data access.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Insert stores one logged session.
func (r *SessionRepository) Insert(ctx context.Context, s *model.StudySession) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO study_sessions (exam_id, started_at, duration_minutes, units, note)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		s.ExamID, s.StartedAt, s.DurationMinutes, s.Units, s.Note,
	).Scan(&s.ID, &s.CreatedAt)
}

// ListByExam returns an exam's sessions, most recent first.
func (r *SessionRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.StudySession, error) {
	return r.list(ctx,
		`SELECT id, exam_id, started_at, duration_minutes, units, note, created_at
		 FROM study_sessions WHERE exam_id = $1 ORDER BY started_at DESC`, examID)
}

// ListRange returns sessions whose start falls inside [from, to).
func (r *SessionRepository) ListRange(ctx context.Context, from, to time.Time) ([]model.StudySession, error) {
	return r.list(ctx,
		`SELECT id, exam_id, started_at, duration_minutes, units, note, created_at
		 FROM study_sessions WHERE started_at >= $1 AND started_at < $2
		 ORDER BY started_at`, from, to)
}

func (r *SessionRepository) list(ctx context.Context, query string, args ...any) ([]model.StudySession, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.StudySession
	for rows.Next() {
		var s model.StudySession
		var note *string
		if err := rows.Scan(&s.ID, &s.ExamID, &s.StartedAt, &s.DurationMinutes,
			&s.Units, &note, &s.CreatedAt); err != nil {
			return nil, err
		}
		if note != nil {
			s.Note = *note
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// TotalMinutesByExam sums logged minutes grouped by exam.
func (r *SessionRepository) TotalMinutesByExam(ctx context.Context) (map[uuid.UUID]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT exam_id, COALESCE(SUM(duration_minutes), 0)
		 FROM study_sessions GROUP BY exam_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var minutes int
		if err := rows.Scan(&id, &minutes); err != nil {
			return nil, err
		}
		totals[id] = minutes
	}
	return totals, rows.Err()
}
