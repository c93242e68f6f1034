// Package planner implements the study-plan allocation engine: given the
// exam list and a calendar of day-by-day available hours, it assigns
// chapter/page ranges to days, carves out trailing review days, and
// re-plans incrementally after partial completion.
//
// The engine is pure computation: it never touches storage, logging, or
// the network, and it never mutates its inputs. Callers persist and
// broadcast the returned day list.
package planner

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/studyflow/planner-backend/internal/model"
)

// Policy parameters of the allocation heuristic. These are deliberately
// centralized; the tuning history lives in these eight numbers.
const (
	// EfficiencyFactor discounts the daily hour budget when estimating how
	// many days an exam needs. Nobody studies at 100% throughput.
	EfficiencyFactor = 0.8

	// SurplusThreshold triggers pruning when the supply of candidate days
	// exceeds the estimated demand by 50% or more.
	SurplusThreshold = 1.5

	// SurplusSkipRatio is the share of surplus days skipped for small,
	// far-away exams.
	SurplusSkipRatio = 0.7

	// NearSkipFactor scales the skip down for exams that are either large
	// or close, so they start studying sooner.
	NearSkipFactor = 0.4

	// SmallExamUnits and FarExamDays classify an exam as "small and far
	// away" for pruning purposes.
	SmallExamUnits = 30
	FarExamDays    = 30

	// ModifiedDayBoost is the capacity multiplier for days whose hours the
	// user edited by hand.
	ModifiedDayBoost = 1.5

	// ReviewDayHours is the fixed planned time for a review entry before
	// the balancer spreads slack.
	ReviewDayHours = 1.0

	// MinSessionHours floors planned time so no assignment degenerates to
	// a zero-length session.
	MinSessionHours = 0.5
)

// ErrNothingToPlan is returned when the exam list is empty. It is a signal,
// not a failure: the caller simply has nothing to do.
var ErrNothingToPlan = errors.New("no exams to plan")

// Settings carries the engine-relevant subset of application settings.
type Settings struct {
	DailyHours float64
	ReviewDays int
}

// Mode selects how a full regeneration treats the existing plan.
type Mode int

const (
	// DiscardAll throws away every prior assignment and rebuilds from
	// scratch.
	DiscardAll Mode = iota
	// KeepCompletedOnly preserves days that contain completed assignments;
	// exams with completed history are re-planned forward from their last
	// completed day.
	KeepCompletedOnly
)

// DateOnly truncates a timestamp to a UTC calendar date. All engine date
// comparisons operate on these normalized values.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether two timestamps fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

func daysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}

// orderExams returns a sorted copy: high priority first, then nearest exam
// date, then name for a stable order. The numeric weighting score seen in
// older planner builds is intentionally not used here.
func orderExams(exams []model.Exam) []model.Exam {
	out := make([]model.Exam, len(exams))
	copy(out, exams)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority.Rank() != out[j].Priority.Rank() {
			return out[i].Priority.Rank() > out[j].Priority.Rank()
		}
		if !out[i].ExamDate.Equal(out[j].ExamDate) {
			return out[i].ExamDate.Before(out[j].ExamDate)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func cloneAssignment(a model.StudyDayExam) model.StudyDayExam {
	c := a
	if a.Units != nil {
		c.Units = make([]int, len(a.Units))
		copy(c.Units, a.Units)
	}
	return c
}

func cloneDay(d model.StudyDay) model.StudyDay {
	c := d
	c.Assignments = make([]model.StudyDayExam, 0, len(d.Assignments))
	for _, a := range d.Assignments {
		c.Assignments = append(c.Assignments, cloneAssignment(a))
	}
	return c
}

func cloneDays(days []model.StudyDay) []model.StudyDay {
	out := make([]model.StudyDay, 0, len(days))
	for _, d := range days {
		out = append(out, cloneDay(d))
	}
	return out
}

// setAssignment replaces the day's assignment for the exam, or appends one.
// Completed assignments are never replaced here; callers check first.
func setAssignment(d *model.StudyDay, a model.StudyDayExam) {
	for i := range d.Assignments {
		if d.Assignments[i].ExamID == a.ExamID {
			d.Assignments[i] = a
			return
		}
	}
	d.Assignments = append(d.Assignments, a)
}

// removeStaleAssignment drops the day's non-completed assignment for the
// exam, if any. Completed entries are history and stay put.
func removeStaleAssignment(d *model.StudyDay, examID uuid.UUID) {
	for i := range d.Assignments {
		if d.Assignments[i].ExamID == examID {
			if d.Assignments[i].Completed {
				return
			}
			d.Assignments = append(d.Assignments[:i], d.Assignments[i+1:]...)
			return
		}
	}
}
