package planner

import (
	"math"

	"github.com/studyflow/planner-backend/internal/model"
)

// distribute splits the selected days into study days and trailing review
// days, then walks the study days assigning contiguous unit ranges starting
// at cursor. Review days receive an empty-unit review entry with a fixed
// hour budget; the balancer later spreads any slack.
//
// Units that do not fit before the walk ends are dropped from this pass;
// they are not silently recovered elsewhere.
func distribute(sel []*model.StudyDay, ex *model.Exam, remaining, cursor, reviewCount int) {
	if len(sel) == 0 {
		return
	}

	reviewStart := len(sel) - reviewCount
	if reviewStart < 0 {
		reviewStart = 0
	}
	study := sel[:reviewStart]
	review := sel[reviewStart:]

	// An exam must never end up with zero actual study time just because
	// its review window swallowed every available day: give the earliest
	// half of the review window back to studying.
	if len(study) == 0 && len(review) > 0 && remaining > 0 {
		n := (reviewCount + 1) / 2
		if n > len(review) {
			n = len(review)
		}
		study = review[:n]
		review = review[n:]
	}

	hpu := ex.HoursPerUnit()
	perDay := 1
	if len(study) > 0 && remaining > 0 {
		perDay = (remaining + len(study) - 1) / len(study)
		if perDay < 1 {
			perDay = 1
		}
	}

	for _, d := range study {
		if remaining <= 0 || cursor > ex.TotalUnits {
			break
		}
		if a := d.AssignmentFor(ex.ID); a != nil && a.Completed {
			continue
		}

		mult := 1.0
		if d.ManuallyModified {
			mult = ModifiedDayBoost
		}

		// The hour budget trims only the modified-day boost. The base
		// quota always fits: over-committed days are reconciled by the
		// balancer scaling hours down, not by pushing units past the
		// deadline.
		hourCap := int(d.AvailableHours / hpu * mult)
		if hourCap < perDay {
			hourCap = perDay
		}
		n := int(math.Ceil(float64(perDay) * mult))
		if n > remaining {
			n = remaining
		}
		if n > hourCap {
			n = hourCap
		}
		// Out-of-order completions leave gaps below the cursor; those units
		// are never re-assigned, so the walk ends at the last unit number.
		if last := ex.TotalUnits - cursor + 1; n > last {
			n = last
		}
		if n <= 0 {
			continue
		}

		units := make([]int, n)
		for i := range units {
			units[i] = cursor + i
		}
		setAssignment(d, model.StudyDayExam{
			ExamID:       ex.ID,
			Units:        units,
			PlannedHours: math.Max(MinSessionHours, float64(n)*hpu),
		})
		cursor += n
		remaining -= n
	}

	for _, d := range review {
		if a := d.AssignmentFor(ex.ID); a != nil && a.Completed {
			continue
		}
		setAssignment(d, model.StudyDayExam{
			ExamID:       ex.ID,
			Units:        []int{},
			IsReview:     true,
			PlannedHours: ReviewDayHours,
		})
	}
}
