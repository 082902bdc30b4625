package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/resultbook/internal/model"
	"github.com/stemsi/resultbook/internal/response"
	"github.com/stemsi/resultbook/internal/service"
	"github.com/stemsi/resultbook/internal/validator"
)

// ExamHandler handles exam definitions and their per-class subject setup.
type ExamHandler struct {
	examService *service.ExamService
	log         zerolog.Logger
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService, log zerolog.Logger) *ExamHandler {
	return &ExamHandler{
		examService: examService,
		log:         log.With().Str("component", "exam_handler").Logger(),
	}
}

// Create godoc
// POST /api/v1/exams
func (h *ExamHandler) Create(c *gin.Context) {
	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"exam": exam})
}

// List godoc
// GET /api/v1/exams
func (h *ExamHandler) List(c *gin.Context) {
	exams, err := h.examService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// Get godoc
// GET /api/v1/exams/:id
func (h *ExamHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	exam, err := h.examService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// Delete godoc
// DELETE /api/v1/exams/:id
// Refused once marks exist for any of the exam's subjects.
func (h *ExamHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.examService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Exam deleted"})
}

// GetSubjects godoc
// GET /api/v1/exams/:id/subjects?class_name=5A
func (h *ExamHandler) GetSubjects(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	className := c.Query("class_name")
	if !model.IsValidClassName(className) {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"class_name": "class_name must be a valid class such as 5A or LKGB"})
		return
	}

	subjects, err := h.examService.Subjects(c.Request.Context(), id, className)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subjects": subjects})
}

// ConfigureSubjects godoc
// PUT /api/v1/exams/:id/subjects
// Replaces the subject selection of the exam for one class. Subjects that
// already carry marks cannot be removed.
func (h *ExamHandler) ConfigureSubjects(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.ConfigureExamSubjectsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	subjects, err := h.examService.ConfigureSubjects(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subjects": subjects})
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}
