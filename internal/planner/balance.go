package planner

import (
	"math"
	"time"

	"github.com/studyflow/planner-backend/internal/model"
)

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// balance reconciles each day's total planned hours against its available
// budget: slack is spread equally across the day's assignments, overflow is
// scaled down proportionally. This is the only step that resolves
// cross-exam contention for the same day's hours, so it must run after
// every exam has been distributed.
func balance(days []model.StudyDay) {
	balanceAfter(days, time.Time{})
}

// balanceAfter rebalances only days strictly after the given date. The
// incremental path uses it to leave settled history untouched.
func balanceAfter(days []model.StudyDay, after time.Time) {
	for i := range days {
		d := &days[i]
		if !after.IsZero() && !d.Date.After(after) {
			continue
		}
		if !d.Available || len(d.Assignments) == 0 {
			continue
		}

		total := 0.0
		for _, a := range d.Assignments {
			total += a.PlannedHours
		}
		if total == 0 {
			continue
		}

		switch {
		case total < d.AvailableHours:
			share := (d.AvailableHours - total) / float64(len(d.Assignments))
			for j := range d.Assignments {
				d.Assignments[j].PlannedHours = round1(d.Assignments[j].PlannedHours + share)
			}
		case total > d.AvailableHours:
			scale := d.AvailableHours / total
			for j := range d.Assignments {
				d.Assignments[j].PlannedHours = round1(d.Assignments[j].PlannedHours * scale)
			}
		}
	}
}
