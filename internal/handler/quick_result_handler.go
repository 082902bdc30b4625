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

type QuickResultHandler struct {
	quickResultService *service.QuickResultService
	log                zerolog.Logger
}

func NewQuickResultHandler(quickResultService *service.QuickResultService, log zerolog.Logger) *QuickResultHandler {
	return &QuickResultHandler{
		quickResultService: quickResultService,
		log:                log.With().Str("component", "quick_result_handler").Logger(),
	}
}

// Create godoc
// POST /api/v1/quick-results
func (h *QuickResultHandler) Create(c *gin.Context) {
	var req model.CreateQuickResultRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.quickResultService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"result": result})
}

// Search godoc
// GET /api/v1/quick-results?q=ravi
func (h *QuickResultHandler) Search(c *gin.Context) {
	results, err := h.quickResultService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": results})
}
