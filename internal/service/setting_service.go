package service

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/studyflow/planner-backend/internal/logger"
	"github.com/studyflow/planner-backend/internal/model"
	"github.com/studyflow/planner-backend/internal/planner"
	"github.com/studyflow/planner-backend/internal/repository"
)

// Fallbacks used when a setting row is missing or unparsable.
const (
	defaultDailyHours = 4.0
	defaultReviewDays = 2
)

type SettingService struct {
	settingRepo *repository.SettingRepository
	log         zerolog.Logger
}

func NewSettingService(settingRepo *repository.SettingRepository, log zerolog.Logger) *SettingService {
	return &SettingService{
		settingRepo: settingRepo,
		log:         logger.Component(log, "setting_service"),
	}
}

func (s *SettingService) GetAllSettings(ctx context.Context) (map[string]string, error) {
	settingsList, err := s.settingRepo.GetAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get all settings")
		return nil, err
	}

	settingsMap := make(map[string]string)
	for _, setting := range settingsList {
		settingsMap[setting.Key] = setting.Value
	}
	return settingsMap, nil
}

func (s *SettingService) UpdateSettings(ctx context.Context, settingsMap map[string]string) error {
	// Simple iterative upsert since settings are low volume.
	for key, value := range settingsMap {
		if err := s.settingRepo.Upsert(ctx, key, value); err != nil {
			s.log.Error().Err(err).Str("key", key).Msg("failed to update setting")
			return err
		}
	}
	return nil
}

// PlannerSettings assembles the engine-facing settings snapshot, falling
// back to defaults when keys are missing or malformed.
func (s *SettingService) PlannerSettings(ctx context.Context) (planner.Settings, error) {
	all, err := s.GetAllSettings(ctx)
	if err != nil {
		return planner.Settings{}, err
	}

	st := planner.Settings{DailyHours: defaultDailyHours, ReviewDays: defaultReviewDays}
	if raw, ok := all[model.SettingDailyHours]; ok {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			st.DailyHours = v
		}
	}
	if raw, ok := all[model.SettingReviewDays]; ok {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			st.ReviewDays = v
		}
	}
	return st, nil
}
