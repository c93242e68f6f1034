package planner

import (
	"math"
	"time"

	"github.com/studyflow/planner-backend/internal/model"
)

// selectDays filters the calendar to the days one exam may study on: dates
// strictly before the exam, on or after the study-start date, and marked
// available. With skipAssigned set (full regeneration), days that already
// hold an assignment for this exam are excluded.
func selectDays(days []model.StudyDay, ex *model.Exam, today time.Time, skipAssigned bool) []*model.StudyDay {
	examDate := DateOnly(ex.ExamDate)
	start := DateOnly(ex.EffectiveStartDate(today))

	var sel []*model.StudyDay
	for i := range days {
		d := &days[i]
		if !d.Date.Before(examDate) || d.Date.Before(start) || !d.Available {
			continue
		}
		if skipAssigned && d.AssignmentFor(ex.ID) != nil {
			continue
		}
		sel = append(sel, d)
	}
	return sel
}

// pruneDays removes excess early days when the supply of candidate days
// clearly exceeds demand, so small far-off exams are not smeared thinly
// from today onward. Manually edited days express explicit user intent:
// they are exempt from pruning and float to the front of the walk order.
func pruneDays(sel []*model.StudyDay, ex *model.Exam, st Settings, units int, today time.Time) []*model.StudyDay {
	if len(sel) == 0 || units <= 0 {
		return sel
	}

	hoursNeeded := float64(units) * ex.HoursPerUnit()
	optimal := int(math.Ceil(hoursNeeded / (st.DailyHours * EfficiencyFactor)))
	if optimal < 1 {
		optimal = 1
	}
	if float64(len(sel)) <= float64(optimal)*SurplusThreshold {
		return sel
	}

	skip := int(float64(len(sel)-optimal) * SurplusSkipRatio)
	smallAndFar := units < SmallExamUnits && daysBetween(today, ex.ExamDate) > FarExamDays
	if !smallAndFar {
		skip = int(float64(skip) * NearSkipFactor)
	}

	var modified, rest []*model.StudyDay
	for _, d := range sel {
		if d.ManuallyModified {
			modified = append(modified, d)
		} else {
			rest = append(rest, d)
		}
	}
	if skip > len(rest) {
		skip = len(rest)
	}
	rest = rest[skip:]

	// Modified days first, then the surviving days; both groups keep their
	// chronological order.
	out := make([]*model.StudyDay, 0, len(modified)+len(rest))
	out = append(out, modified...)
	out = append(out, rest...)
	return out
}
