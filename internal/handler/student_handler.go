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

const maxPerPage = 100

// StudentHandler handles student registration and lookup.
type StudentHandler struct {
	studentService *service.StudentService
	log            zerolog.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService *service.StudentService, log zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
		log:            log.With().Str("component", "student_handler").Logger(),
	}
}

// Register godoc
// POST /api/v1/students
// Registers a student and assigns the next admission number for their year.
func (h *StudentHandler) Register(c *gin.Context) {
	var req model.RegisterStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// NextAdmissionNumber godoc
// GET /api/v1/students/admission-numbers/next?year=2025
// Previews the admission number the next registration would receive.
func (h *StudentHandler) NextAdmissionNumber(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"year": "year must be a number"})
		return
	}

	next, err := h.studentService.PreviewNext(c.Request.Context(), year)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, next)
}

// List godoc
// GET /api/v1/students?class_name=5A&q=ali&page=1&per_page=20
func (h *StudentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > maxPerPage {
		perPage = 20
	}

	students, total, err := h.studentService.List(c.Request.Context(), c.Query("class_name"), c.Query("q"), page, perPage)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"students": students},
		response.NewPagination(page, perPage, total))
}

// Classes godoc
// GET /api/v1/students/classes
func (h *StudentHandler) Classes(c *gin.Context) {
	classes, err := h.studentService.Classes(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if classes == nil {
		classes = []string{}
	}
	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// Get godoc
// GET /api/v1/students/:admission_no
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.studentService.Get(c.Request.Context(), c.Param("admission_no"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student": student})
}
