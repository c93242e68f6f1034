package model

import (
	"time"

	"github.com/google/uuid"
)

// StudyDay is one calendar date's capacity and its per-exam assignments.
type StudyDay struct {
	ID               int            `json:"id,omitempty"`
	Date             time.Time      `json:"date"`
	Available        bool           `json:"available"`
	AvailableHours   float64        `json:"available_hours"`
	ManuallyModified bool           `json:"manually_modified"`
	Assignments      []StudyDayExam `json:"assignments"`
}

// AssignmentFor returns a pointer to this day's assignment for the given
// exam, or nil if none exists.
func (d *StudyDay) AssignmentFor(examID uuid.UUID) *StudyDayExam {
	for i := range d.Assignments {
		if d.Assignments[i].ExamID == examID {
			return &d.Assignments[i]
		}
	}
	return nil
}

// StudyDayExam is one exam's workload on one day. An empty unit list means
// either "review everything" (IsReview=true) or general, unspecified study.
type StudyDayExam struct {
	ExamID       uuid.UUID `json:"exam_id"`
	Units        []int     `json:"units"`
	PlannedHours float64   `json:"planned_hours"`
	ActualHours  float64   `json:"actual_hours"`
	Completed    bool      `json:"completed"`
	IsReview     bool      `json:"is_review"`
}

// UpdateDayRequest edits a day's availability or hour budget.
type UpdateDayRequest struct {
	Available      *bool    `json:"available" binding:"omitempty"`
	AvailableHours *float64 `json:"available_hours" binding:"omitempty,gte=0,lte=24"`
}

// UpdateAssignmentRequest toggles completion or adjusts one day's workload
// for a single exam. Units may be supplied when the user studied something
// other than what was planned.
type UpdateAssignmentRequest struct {
	Completed   *bool   `json:"completed" binding:"omitempty"`
	ActualHours float64 `json:"actual_hours" binding:"omitempty,gte=0,lte=24"`
	Units       []int   `json:"units" binding:"omitempty,dive,min=1"`
	MoveToDate  *string `json:"move_to_date" binding:"omitempty,datetime=2006-01-02"`
}

// RegenerateRequest selects the full-regeneration mode.
type RegenerateRequest struct {
	Mode string `json:"mode" binding:"required,oneof=discard_all keep_completed"`
}
