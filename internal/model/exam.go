package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamMode selects the unit of measurement for an exam's material.
type ExamMode string

const (
	// ExamModeChapters measures material in chapters; Rate is hours per chapter.
	ExamModeChapters ExamMode = "chapters"
	// ExamModePages measures material in pages; Rate is pages read per hour.
	ExamModePages ExamMode = "pages"
)

// Priority enumerates exam scheduling priorities.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank maps a priority to a sortable weight (higher studies first).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Exam represents one academic test to prepare for.
type Exam struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	ExamDate       time.Time  `json:"exam_date"`
	StudyStartDate *time.Time `json:"study_start_date,omitempty"`
	Mode           ExamMode   `json:"mode"`
	TotalUnits     int        `json:"total_units"`
	Rate           float64    `json:"rate"`
	KnowledgeLevel int        `json:"knowledge_level"`
	Priority       Priority   `json:"priority"`
	ReviewDays     *int       `json:"review_days,omitempty"`
	Color          string     `json:"color"`
	PlanStale      bool       `json:"plan_stale"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// HoursPerUnit converts the mode-dependent rate into hours per unit.
// Chapter rate is already hours per chapter; page rate is pages per hour.
func (e *Exam) HoursPerUnit() float64 {
	if e.Mode == ExamModePages {
		return 1 / e.Rate
	}
	return e.Rate
}

// EffectiveReviewDays returns the per-exam override or the global default.
func (e *Exam) EffectiveReviewDays(defaultReviewDays int) int {
	if e.ReviewDays != nil {
		return *e.ReviewDays
	}
	return defaultReviewDays
}

// EffectiveStartDate returns the custom study-start date or today if unset.
func (e *Exam) EffectiveStartDate(today time.Time) time.Time {
	if e.StudyStartDate != nil && e.StudyStartDate.After(today) {
		return *e.StudyStartDate
	}
	return today
}

// CreateExamRequest is the payload for registering a new exam.
type CreateExamRequest struct {
	Name           string     `json:"name" binding:"required,min=1,max=255"`
	ExamDate       time.Time  `json:"exam_date" binding:"required"`
	StudyStartDate *time.Time `json:"study_start_date" binding:"omitempty,ltfield=ExamDate"`
	Mode           ExamMode   `json:"mode" binding:"required,oneof=chapters pages"`
	TotalUnits     int        `json:"total_units" binding:"required,min=1"`
	Rate           float64    `json:"rate" binding:"required,gt=0"`
	KnowledgeLevel int        `json:"knowledge_level" binding:"omitempty,min=1,max=5"`
	Priority       Priority   `json:"priority" binding:"omitempty,oneof=low medium high"`
	ReviewDays     *int       `json:"review_days" binding:"omitempty,min=0,max=30"`
	Color          string     `json:"color" binding:"omitempty,hexcolor"`
}

// UpdateExamRequest is the payload for editing an existing exam.
// Size or mode changes disconnect the exam from any generated plan;
// the plan is only rebuilt on an explicit regeneration.
type UpdateExamRequest struct {
	Name           string     `json:"name" binding:"omitempty,min=1,max=255"`
	ExamDate       *time.Time `json:"exam_date" binding:"omitempty"`
	StudyStartDate *time.Time `json:"study_start_date" binding:"omitempty"`
	Mode           ExamMode   `json:"mode" binding:"omitempty,oneof=chapters pages"`
	TotalUnits     *int       `json:"total_units" binding:"omitempty,min=1"`
	Rate           *float64   `json:"rate" binding:"omitempty,gt=0"`
	KnowledgeLevel *int       `json:"knowledge_level" binding:"omitempty,min=1,max=5"`
	Priority       Priority   `json:"priority" binding:"omitempty,oneof=low medium high"`
	ReviewDays     *int       `json:"review_days" binding:"omitempty,min=0,max=30"`
	Color          string     `json:"color" binding:"omitempty,hexcolor"`
}
