package planner

import (
	"time"

	"github.com/google/uuid"
	"github.com/studyflow/planner-backend/internal/model"
)

// GenerateFullPlan rebuilds the entire day-by-day plan for the given exams.
//
// The calendar is materialized once, each exam is distributed in priority
// order, and the balancer reconciles shared days at the end. In
// KeepCompletedOnly mode, prior days holding completed assignments survive
// and exams with completed history are re-planned forward from their most
// recent completed day instead of from scratch.
//
// The inputs are never mutated; the returned slice is a fresh calendar.
// Returns ErrNothingToPlan when the exam list is empty.
func GenerateFullPlan(exams []model.Exam, existing []model.StudyDay, st Settings, mode Mode, today time.Time) ([]model.StudyDay, error) {
	if len(exams) == 0 {
		return nil, ErrNothingToPlan
	}
	today = DateOnly(today)

	prior := existing
	if mode == KeepCompletedOnly {
		prior = daysWithCompleted(existing)
	}
	days := buildCalendar(exams, prior, st.DailyHours, today, mode == KeepCompletedOnly)

	for _, ex := range orderExams(exams) {
		led := accountFor(&ex, days)
		if mode == KeepCompletedOnly && len(led.Completed) > 0 {
			recalcForward(days, &ex, led, st, today)
			continue
		}
		sel := selectDays(days, &ex, today, true)
		sel = pruneDays(sel, &ex, st, ex.TotalUnits, today)
		distribute(sel, &ex, ex.TotalUnits, 1, ex.EffectiveReviewDays(st.ReviewDays))
	}

	balance(days)
	return days, nil
}

// ApplyDayEdit merges an edited day into the calendar and, when the edit
// marks assignments completed with logged hours, re-plans each affected
// exam's future days. History at or before the edited day, and every other
// exam, stay untouched.
func ApplyDayEdit(day model.StudyDay, all []model.StudyDay, exams []model.Exam, st Settings, today time.Time) []model.StudyDay {
	days := cloneDays(all)
	today = DateOnly(today)

	merged := false
	for i := range days {
		if SameDate(days[i].Date, day.Date) {
			days[i] = cloneDay(day)
			days[i].Date = DateOnly(day.Date)
			merged = true
			break
		}
	}
	if !merged {
		return days
	}

	touched := false
	for _, a := range day.Assignments {
		if !a.Completed || a.ActualHours <= 0 {
			continue
		}
		ex := examByID(exams, a.ExamID)
		if ex == nil {
			continue
		}
		led := accountFor(ex, days)
		recalcForward(days, ex, led, st, today)
		touched = true
	}
	if touched {
		balanceAfter(days, DateOnly(day.Date))
	}
	return days
}

// recalcForward re-plans one exam across the days after its most recent
// completed assignment, scaled to the remaining units and continuing the
// unit numbering from the completion ledger.
func recalcForward(days []model.StudyDay, ex *model.Exam, led unitLedger, st Settings, today time.Time) {
	pivot := led.LastCompletedDay
	examDate := DateOnly(ex.ExamDate)
	start := DateOnly(ex.EffectiveStartDate(today))

	// Stale forward assignments are rebuilt below; drop them everywhere
	// past the pivot so pruned-away days don't keep orphaned unit ranges.
	for i := range days {
		d := &days[i]
		if led.HasHistory && !d.Date.After(pivot) {
			continue
		}
		removeStaleAssignment(d, ex.ID)
	}

	var sel []*model.StudyDay
	for i := range days {
		d := &days[i]
		if led.HasHistory && !d.Date.After(pivot) {
			continue
		}
		if !d.Date.Before(examDate) || d.Date.Before(start) || !d.Available {
			continue
		}
		sel = append(sel, d)
	}

	sel = pruneDays(sel, ex, st, led.Remaining, today)
	distribute(sel, ex, led.Remaining, led.NextUnit, ex.EffectiveReviewDays(st.ReviewDays))
}

func examByID(exams []model.Exam, id uuid.UUID) *model.Exam {
	for i := range exams {
		if exams[i].ID == id {
			return &exams[i]
		}
	}
	return nil
}
