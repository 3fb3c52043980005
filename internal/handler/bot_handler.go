package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/service"
	"gridwatch/backend/internal/service/fleet"
	"gridwatch/backend/internal/util"
)

// BotHandler handles grid bot configuration endpoints
type BotHandler struct {
	botService *service.BotService
}

// NewBotHandler creates a new bot handler
func NewBotHandler(botService *service.BotService) *BotHandler {
	return &BotHandler{
		botService: botService,
	}
}

// CreateBot handles POST /api/v1/bots
func (h *BotHandler) CreateBot(c *gin.Context) {
	var req model.CreateBotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendBindError(c, err)
		return
	}

	bot, err := h.botService.Create(c.Request.Context(), c.GetString(util.ContextUserID), &req)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendCreated(c, bot, "Bot created successfully")
}

// ListBots handles GET /api/v1/bots
func (h *BotHandler) ListBots(c *gin.Context) {
	bots, err := h.botService.List(c.Request.Context(), c.GetString(util.ContextUserID))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, bots)
}

// GetBot handles GET /api/v1/bots/:id
func (h *BotHandler) GetBot(c *gin.Context) {
	bot, err := h.botService.Get(c.Request.Context(), c.GetString(util.ContextUserID), c.Param("id"))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, bot)
}

// UpdateBot handles PUT /api/v1/bots/:id
func (h *BotHandler) UpdateBot(c *gin.Context) {
	var req model.UpdateBotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendBindError(c, err)
		return
	}

	bot, err := h.botService.Update(c.Request.Context(), c.GetString(util.ContextUserID), c.Param("id"), &req)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccessWithMessage(c, bot, "Bot updated successfully")
}

// DeleteBot handles DELETE /api/v1/bots/:id
func (h *BotHandler) DeleteBot(c *gin.Context) {
	if err := h.botService.Delete(c.Request.Context(), c.GetString(util.ContextUserID), c.Param("id")); err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccessWithMessage(c, nil, "Bot deleted successfully")
}

// GetLadder handles GET /api/v1/bots/:id/ladder
func (h *BotHandler) GetLadder(c *gin.Context) {
	preview, err := h.botService.PreviewLadder(c.Request.Context(), c.GetString(util.ContextUserID), c.Param("id"))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, preview)
}

// PreviewLadder handles POST /api/v1/ladder/preview for a configuration not yet saved
func (h *BotHandler) PreviewLadder(c *gin.Context) {
	var req model.LadderPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendBindError(c, err)
		return
	}

	levels, err := fleet.Preview(req.LowerLimit, req.UpperLimit, req.GridCount, req.GridType)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			util.SendError(c, util.NewAppErrorWithDetails(http.StatusBadRequest, util.ErrCodeValidation, verr.Error(), verr.Field))
			return
		}
		util.SendError(c, util.ErrValidation(err.Error()))
		return
	}

	kind := req.GridType
	if kind == "" {
		kind = model.GridArithmetic
	}
	util.SendSuccess(c, model.LadderPreview{
		Lower:     req.LowerLimit,
		Upper:     req.UpperLimit,
		GridCount: req.GridCount,
		GridType:  kind,
		Levels:    levels,
	})
}
