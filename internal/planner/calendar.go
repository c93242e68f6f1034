package planner

import (
	"time"

	"github.com/studyflow/planner-backend/internal/model"
)

// buildCalendar materializes one StudyDay per date from today through the
// furthest exam date, with no gaps. Availability, hour budgets, and the
// manual-edit flag carry forward from any prior day at the same date; new
// days default to available with the configured daily budget.
//
// Assignments start empty unless keepAssignments is set, in which case
// completed entries survive (the keep-completed regeneration mode).
func buildCalendar(exams []model.Exam, prior []model.StudyDay, defaultHours float64, today time.Time, keepAssignments bool) []model.StudyDay {
	var last time.Time
	for _, e := range exams {
		d := DateOnly(e.ExamDate)
		if d.After(last) {
			last = d
		}
	}

	byDate := make(map[time.Time]*model.StudyDay, len(prior))
	for i := range prior {
		key := DateOnly(prior[i].Date)
		byDate[key] = &prior[i]
	}

	var days []model.StudyDay
	for d := today; !d.After(last); d = d.AddDate(0, 0, 1) {
		day := model.StudyDay{
			Date:           d,
			Available:      true,
			AvailableHours: defaultHours,
			Assignments:    []model.StudyDayExam{},
		}
		if p, ok := byDate[d]; ok {
			day.Available = p.Available
			day.AvailableHours = p.AvailableHours
			day.ManuallyModified = p.ManuallyModified
			if keepAssignments {
				for _, a := range p.Assignments {
					if a.Completed {
						day.Assignments = append(day.Assignments, cloneAssignment(a))
					}
				}
			}
		}
		days = append(days, day)
	}
	return days
}

// daysWithCompleted filters the prior calendar down to days that contain at
// least one completed assignment.
func daysWithCompleted(days []model.StudyDay) []model.StudyDay {
	var kept []model.StudyDay
	for _, d := range days {
		for _, a := range d.Assignments {
			if a.Completed {
				kept = append(kept, d)
				break
			}
		}
	}
	return kept
}
