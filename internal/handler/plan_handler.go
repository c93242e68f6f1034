package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/studyflow/planner-backend/internal/model"
	"github.com/studyflow/planner-backend/internal/planner"
	"github.com/studyflow/planner-backend/internal/response"
	"github.com/studyflow/planner-backend/internal/service"
	"github.com/studyflow/planner-backend/internal/validator"
)

// PlanHandler handles plan retrieval, regeneration, and day edits.
type PlanHandler struct {
	planService *service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// Get godoc
// GET /api/v1/plan
// Returns the full stored calendar.
func (h *PlanHandler) Get(c *gin.Context) {
	days, err := h.planService.GetPlan(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"days": days})
}

// Regenerate godoc
// POST /api/v1/plan/regenerate
// Rebuilds the plan from today forward in the requested mode.
func (h *PlanHandler) Regenerate(c *gin.Context) {
	var req model.RegenerateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	mode := planner.DiscardAll
	if req.Mode == "keep_completed" {
		mode = planner.KeepCompletedOnly
	}

	days, err := h.planService.Regenerate(c.Request.Context(), mode)
	if err != nil {
		if errors.Is(err, planner.ErrNothingToPlan) {
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrNothingToPlan)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"days": days})
}

// UpdateDay godoc
// PUT /api/v1/plan/days/:date
// Edits one day's availability or hour budget and rebalances forward.
func (h *PlanHandler) UpdateDay(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
		return
	}

	var req model.UpdateDayRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	days, err := h.planService.EditDay(c.Request.Context(), date, &req)
	if err != nil {
		h.failDayEdit(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"days": days})
}

// UpdateAssignment godoc
// PUT /api/v1/plan/days/:date/exams/:exam_id
// Toggles completion, logs hours, adjusts units, or moves the assignment.
func (h *PlanHandler) UpdateAssignment(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
		return
	}
	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateAssignmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	days, err := h.planService.UpdateAssignment(c.Request.Context(), date, examID, &req)
	if err != nil {
		h.failDayEdit(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"days": days})
}

func (h *PlanHandler) failDayEdit(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDayNotInPlan):
		response.Fail(c, http.StatusNotFound, response.ErrDayNotInPlan)
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrAssignmentLocked):
		response.Fail(c, http.StatusConflict, response.ErrAssignmentLocked)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
