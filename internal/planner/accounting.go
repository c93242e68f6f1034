package planner

import (
	"time"

	"github.com/studyflow/planner-backend/internal/model"
)

// unitLedger summarizes one exam's completion state across the calendar.
type unitLedger struct {
	// Completed is the union of unit numbers from completed assignments.
	Completed map[int]bool
	// Remaining is totalUnits minus the completed count.
	Remaining int
	// NextUnit is max(completed)+1, or 1 when nothing is completed. Derived
	// from the maximum, not the count: users can complete out-of-order
	// units via custom entry, and counting alone would double-assign.
	NextUnit int
	// LastCompletedDay is the most recent date holding a completed
	// assignment for the exam; zero when HasHistory is false.
	LastCompletedDay time.Time
	HasHistory       bool
}

// accountFor derives the unit ledger for one exam from the full day list.
func accountFor(ex *model.Exam, days []model.StudyDay) unitLedger {
	led := unitLedger{Completed: make(map[int]bool)}
	maxUnit := 0
	for i := range days {
		a := days[i].AssignmentFor(ex.ID)
		if a == nil || !a.Completed {
			continue
		}
		if !led.HasHistory || days[i].Date.After(led.LastCompletedDay) {
			led.LastCompletedDay = DateOnly(days[i].Date)
			led.HasHistory = true
		}
		for _, u := range a.Units {
			if u < 1 || u > ex.TotalUnits {
				continue
			}
			if !led.Completed[u] {
				led.Completed[u] = true
				if u > maxUnit {
					maxUnit = u
				}
			}
		}
	}
	led.Remaining = ex.TotalUnits - len(led.Completed)
	led.NextUnit = maxUnit + 1
	return led
}
