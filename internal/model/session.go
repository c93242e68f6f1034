package model

import (
	"time"

	"github.com/google/uuid"
)

// StudySession is a logged real-world study interval produced by the focus
// timer. Sessions feed statistics only; the allocation engine never reads
// them.
type StudySession struct {
	ID              uuid.UUID `json:"id"`
	ExamID          uuid.UUID `json:"exam_id"`
	StartedAt       time.Time `json:"started_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Units           []int     `json:"units"`
	Note            string    `json:"note,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// LogSessionRequest is the payload the timer client sends at session end.
type LogSessionRequest struct {
	ExamID          uuid.UUID `json:"exam_id" binding:"required"`
	StartedAt       time.Time `json:"started_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,min=1,max=1440"`
	Units           []int     `json:"units" binding:"omitempty,dive,min=1"`
	Note            string    `json:"note" binding:"omitempty,max=2000"`
}
