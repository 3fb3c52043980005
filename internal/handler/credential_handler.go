package handler

import (
	"github.com/gin-gonic/gin"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/service"
	"gridwatch/backend/internal/util"
)

// CredentialHandler handles exchange credential endpoints
type CredentialHandler struct {
	credentialService *service.CredentialService
}

// NewCredentialHandler creates a new credential handler
func NewCredentialHandler(credentialService *service.CredentialService) *CredentialHandler {
	return &CredentialHandler{
		credentialService: credentialService,
	}
}

// Save validates and stores a key pair
// POST /api/v1/credentials
func (h *CredentialHandler) Save(c *gin.Context) {
	var req model.CredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendBindError(c, err)
		return
	}

	status, err := h.credentialService.Save(c.Request.Context(), c.GetString(util.ContextUserID), &req)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendCreated(c, status, "API keys saved and validated successfully")
}

// Status reports the stored key pair, masked
// GET /api/v1/credentials
func (h *CredentialHandler) Status(c *gin.Context) {
	status, err := h.credentialService.Status(c.Request.Context(), c.GetString(util.ContextUserID))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccess(c, status)
}

// Validate re-checks the stored key pair with the exchange
// POST /api/v1/credentials/validate
func (h *CredentialHandler) Validate(c *gin.Context) {
	status, err := h.credentialService.Validate(c.Request.Context(), c.GetString(util.ContextUserID))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccessWithMessage(c, status, "API keys are valid")
}

// Delete removes the stored key pair
// DELETE /api/v1/credentials
func (h *CredentialHandler) Delete(c *gin.Context) {
	if err := h.credentialService.Delete(c.Request.Context(), c.GetString(util.ContextUserID)); err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccessWithMessage(c, nil, "API keys deleted successfully")
}
