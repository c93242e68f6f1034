package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/studyflow/planner-backend/internal/model"
	"github.com/studyflow/planner-backend/internal/response"
	"github.com/studyflow/planner-backend/internal/service"
	"github.com/studyflow/planner-backend/internal/validator"
)

// ExamHandler handles exam CRUD endpoints.
type ExamHandler struct {
	examService *service.ExamService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// List godoc
// GET /api/v1/exams
func (h *ExamHandler) List(c *gin.Context) {
	exams, err := h.examService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// Get godoc
// GET /api/v1/exams/:id
func (h *ExamHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	ex, err := h.examService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam": ex})
}

// Create godoc
// POST /api/v1/exams
func (h *ExamHandler) Create(c *gin.Context) {
	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ex, err := h.examService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"exam": ex})
}

// Update godoc
// PUT /api/v1/exams/:id
func (h *ExamHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ex, err := h.examService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam": ex})
}

// Delete godoc
// DELETE /api/v1/exams/:id
func (h *ExamHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.examService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
