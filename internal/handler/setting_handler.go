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

// SettingHandler exposes report settings.
type SettingHandler struct {
	settingService *service.SettingService
	log            zerolog.Logger
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(settingService *service.SettingService, log zerolog.Logger) *SettingHandler {
	return &SettingHandler{
		settingService: settingService,
		log:            log.With().Str("component", "setting_handler").Logger(),
	}
}

// GetAll godoc
// GET /api/v1/settings
func (h *SettingHandler) GetAll(c *gin.Context) {
	settings, err := h.settingService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}

// Update godoc
// PUT /api/v1/settings
func (h *SettingHandler) Update(c *gin.Context) {
	var req model.UpdateSettingsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.settingService.Update(c.Request.Context(), req.Settings); err != nil {
		respondError(c, h.log, err)
		return
	}

	settings, err := h.settingService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}
