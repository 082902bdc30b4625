package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/resultbook/internal/model"
	"github.com/stemsi/resultbook/internal/response"
	"github.com/stemsi/resultbook/internal/service"
	"github.com/stemsi/resultbook/internal/validator"
)

// MarkHandler handles marks entry.
type MarkHandler struct {
	markService *service.MarkService
	log         zerolog.Logger
}

// NewMarkHandler creates a new MarkHandler.
func NewMarkHandler(markService *service.MarkService, log zerolog.Logger) *MarkHandler {
	return &MarkHandler{
		markService: markService,
		log:         log.With().Str("component", "mark_handler").Logger(),
	}
}

// Record godoc
// POST /api/v1/marks
// Records one or more subject scores for a student in an exam. The whole
// batch is rejected when any score is invalid.
func (h *MarkHandler) Record(c *gin.Context) {
	var req model.RecordMarksRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	marks, err := h.markService.Record(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"marks": marks})
}

// List godoc
// GET /api/v1/marks?admission_no=2025001&exam_name=PT1
func (h *MarkHandler) List(c *gin.Context) {
	admissionNo := c.Query("admission_no")
	if admissionNo == "" {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"admission_no": "admission_no is required"})
		return
	}

	marks, err := h.markService.List(c.Request.Context(), admissionNo, c.Query("exam_name"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"marks": marks})
}
