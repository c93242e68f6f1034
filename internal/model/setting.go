package model

import "time"

// Well-known setting keys.
const (
	SettingDailyHours   = "daily_study_hours"
	SettingReviewDays   = "review_day_count"
	SettingWorkMinutes  = "timer_work_minutes"
	SettingBreakMinutes = "timer_break_minutes"
)

// AppSetting represents a key-value pair for global application configuration.
type AppSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateSettingsRequest is the payload for bulk updating settings.
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required"`
}
