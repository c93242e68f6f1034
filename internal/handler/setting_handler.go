package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyflow/planner-backend/internal/model"
	"github.com/studyflow/planner-backend/internal/response"
	"github.com/studyflow/planner-backend/internal/service"
	"github.com/studyflow/planner-backend/internal/validator"
)

// SettingHandler handles application settings endpoints.
type SettingHandler struct {
	settingService *service.SettingService
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(settingService *service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// GetAll godoc
// GET /api/v1/settings
func (h *SettingHandler) GetAll(c *gin.Context) {
	settings, err := h.settingService.GetAllSettings(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}

// Update godoc
// PUT /api/v1/settings
// Bulk-upserts setting keys. Daily-hour or review-day changes take effect
// on the next regeneration, not retroactively.
func (h *SettingHandler) Update(c *gin.Context) {
	var req model.UpdateSettingsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.settingService.UpdateSettings(c.Request.Context(), req.Settings); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	settings, err := h.settingService.GetAllSettings(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}
