package handler

import (
	"github.com/gin-gonic/gin"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/service"
	"gridwatch/backend/internal/util"
)

// SettingsHandler handles dashboard settings
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// Get GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context(), c.GetString(util.ContextUserID))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, settings)
}

// Update PUT /api/v1/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req model.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendBindError(c, err)
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), c.GetString(util.ContextUserID), &req)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccessWithMessage(c, settings, "Settings updated successfully")
}
