package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studyflow/planner-backend/internal/model"
)

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

const examColumns = `id, name, exam_date, study_start_date, mode, total_units, rate,
	knowledge_level, priority, review_days, color, plan_stale, created_at, updated_at`

func scanExam(row interface{ Scan(...any) error }) (*model.Exam, error) {
	e := &model.Exam{}
	err := row.Scan(&e.ID, &e.Name, &e.ExamDate, &e.StudyStartDate, &e.Mode,
		&e.TotalUnits, &e.Rate, &e.KnowledgeLevel, &e.Priority, &e.ReviewDays,
		&e.Color, &e.PlanStale, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetByID retrieves an exam by its UUID.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	return scanExam(r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams WHERE id = $1`, id))
}

// List retrieves all exams ordered by exam date.
func (r *ExamRepository) List(ctx context.Context) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+examColumns+` FROM exams ORDER BY exam_date, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, *e)
	}
	return exams, rows.Err()
}

// Create inserts a new exam.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exams (name, exam_date, study_start_date, mode, total_units, rate,
		                    knowledge_level, priority, review_days, color)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		e.Name, e.ExamDate, e.StudyStartDate, e.Mode, e.TotalUnits, e.Rate,
		e.KnowledgeLevel, e.Priority, e.ReviewDays, e.Color,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// Update rewrites an exam's editable fields.
func (r *ExamRepository) Update(ctx context.Context, e *model.Exam) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exams SET name = $1, exam_date = $2, study_start_date = $3, mode = $4,
		        total_units = $5, rate = $6, knowledge_level = $7, priority = $8,
		        review_days = $9, color = $10, plan_stale = $11, updated_at = NOW()
		 WHERE id = $12`,
		e.Name, e.ExamDate, e.StudyStartDate, e.Mode, e.TotalUnits, e.Rate,
		e.KnowledgeLevel, e.Priority, e.ReviewDays, e.Color, e.PlanStale, e.ID)
	return err
}

// Delete removes an exam. Plan entries and logged sessions go with it via
// foreign-key cascade.
func (r *ExamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
	return err
}

// ClearPlanStale resets the stale marker after a successful regeneration.
func (r *ExamRepository) ClearPlanStale(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `UPDATE exams SET plan_stale = FALSE WHERE plan_stale`)
	return err
}
