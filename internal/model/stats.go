package model

import "github.com/google/uuid"

// ExamStats is the computed progress snapshot for one exam.
type ExamStats struct {
	ExamID          uuid.UUID `json:"exam_id"`
	Name            string    `json:"name"`
	TotalUnits      int       `json:"total_units"`
	CompletedUnits  int       `json:"completed_units"`
	RemainingUnits  int       `json:"remaining_units"`
	ProgressPercent float64   `json:"progress_percent"`
	PlannedHours    float64   `json:"planned_hours"`
	CompletedHours  float64   `json:"completed_hours"`
	LoggedMinutes   int       `json:"logged_minutes"`
	DaysUntilExam   int       `json:"days_until_exam"`
	OnTrack         bool      `json:"on_track"`
}

// StatsOverview aggregates per-exam progress with cross-exam totals.
type StatsOverview struct {
	Exams              []ExamStats `json:"exams"`
	TotalPlannedHours  float64     `json:"total_planned_hours"`
	TotalLoggedMinutes int         `json:"total_logged_minutes"`
}
