package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/studyflow/planner-backend/internal/model"
	"github.com/studyflow/planner-backend/internal/response"
	"github.com/studyflow/planner-backend/internal/service"
	"github.com/studyflow/planner-backend/internal/validator"
)

// SessionHandler handles focus-timer session logging and history.
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Log godoc
// POST /api/v1/sessions
// Accepts a finished timer session. The write is queued; 202 means the
// session will land in storage shortly.
func (h *SessionHandler) Log(c *gin.Context) {
	var req model.LogSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.sessionService.Enqueue(c.Request.Context(), &req); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{})
}

// ListByExam godoc
// GET /api/v1/exams/:id/sessions
func (h *SessionHandler) ListByExam(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	sessions, err := h.sessionService.ListByExam(c.Request.Context(), examID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sessions": sessions})
}

// ListRange godoc
// GET /api/v1/sessions?from=2026-03-01&to=2026-03-08
// Defaults to the trailing seven days when no range is given.
func (h *SessionHandler) ListRange(c *gin.Context) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -7)

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
			return
		}
		// Treat "to" as inclusive of the named day.
		to = parsed.AddDate(0, 0, 1)
	}

	sessions, err := h.sessionService.ListRange(c.Request.Context(), from, to)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sessions": sessions})
}
