package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studyflow/planner-backend/internal/model"
)

// PlanRepository persists the day-by-day study plan.
type PlanRepository struct {
	pool *pgxpool.Pool
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(pool *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{pool: pool}
}

// LoadAll returns the full calendar ordered by date, assignments attached.
func (r *PlanRepository) LoadAll(ctx context.Context) ([]model.StudyDay, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, date, available, available_hours, manually_modified
		 FROM study_days ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []model.StudyDay
	index := make(map[int]int)
	for rows.Next() {
		var d model.StudyDay
		if err := rows.Scan(&d.ID, &d.Date, &d.Available, &d.AvailableHours, &d.ManuallyModified); err != nil {
			return nil, err
		}
		d.Assignments = []model.StudyDayExam{}
		index[d.ID] = len(days)
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	arows, err := r.pool.Query(ctx,
		`SELECT day_id, exam_id, units, planned_hours, actual_hours, completed, is_review
		 FROM study_day_exams ORDER BY day_id, id`)
	if err != nil {
		return nil, err
	}
	defer arows.Close()

	for arows.Next() {
		var dayID int
		var a model.StudyDayExam
		if err := arows.Scan(&dayID, &a.ExamID, &a.Units, &a.PlannedHours,
			&a.ActualHours, &a.Completed, &a.IsReview); err != nil {
			return nil, err
		}
		if i, ok := index[dayID]; ok {
			days[i].Assignments = append(days[i].Assignments, a)
		}
	}
	return days, arows.Err()
}

// ReplaceFrom atomically swaps every stored day on or after the given date
// for the provided days. Days before the date are settled history and are
// left alone. One call is one regeneration commit: readers never observe a
// half-replaced calendar.
func (r *PlanRepository) ReplaceFrom(ctx context.Context, from time.Time, days []model.StudyDay) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM study_days WHERE date >= $1`, from); err != nil {
		return err
	}

	for i := range days {
		d := &days[i]
		if d.Date.Before(from) {
			continue
		}
		var dayID int
		if err := tx.QueryRow(ctx,
			`INSERT INTO study_days (date, available, available_hours, manually_modified)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			d.Date, d.Available, d.AvailableHours, d.ManuallyModified,
		).Scan(&dayID); err != nil {
			return err
		}
		for _, a := range d.Assignments {
			if _, err := tx.Exec(ctx,
				`INSERT INTO study_day_exams (day_id, exam_id, units, planned_hours,
				                              actual_hours, completed, is_review)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				dayID, a.ExamID, a.Units, a.PlannedHours, a.ActualHours,
				a.Completed, a.IsReview); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

// GetDay loads a single day with its assignments.
func (r *PlanRepository) GetDay(ctx context.Context, date time.Time) (*model.StudyDay, error) {
	d := &model.StudyDay{Assignments: []model.StudyDayExam{}}
	err := r.pool.QueryRow(ctx,
		`SELECT id, date, available, available_hours, manually_modified
		 FROM study_days WHERE date = $1`, date,
	).Scan(&d.ID, &d.Date, &d.Available, &d.AvailableHours, &d.ManuallyModified)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT exam_id, units, planned_hours, actual_hours, completed, is_review
		 FROM study_day_exams WHERE day_id = $1 ORDER BY id`, d.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var a model.StudyDayExam
		if err := rows.Scan(&a.ExamID, &a.Units, &a.PlannedHours, &a.ActualHours,
			&a.Completed, &a.IsReview); err != nil {
			return nil, err
		}
		d.Assignments = append(d.Assignments, a)
	}
	return d, rows.Err()
}

// ErrNoRows re-exports pgx.ErrNoRows so callers don't import pgx directly.
var ErrNoRows = pgx.ErrNoRows
