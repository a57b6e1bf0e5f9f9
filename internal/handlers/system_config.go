package handlers

import (
	"github.com/aadilm/taskboard/backend/internal/services"
	"github.com/aadilm/taskboard/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SystemConfigHandler struct {
	configService *services.SystemConfigService
}

func NewSystemConfigHandler(db *gorm.DB) *SystemConfigHandler {
	return &SystemConfigHandler{
		configService: services.NewSystemConfigService(db),
	}
}

// GetEmailConfig returns the SMTP settings (password omitted)
// GET /api/admin/config/email
func (h *SystemConfigHandler) GetEmailConfig(c *gin.Context) {
	response.Success(c, h.configService.GetEmailConfig())
}

// UpdateEmailConfig updates SMTP settings; absent fields are untouched
// PUT /api/admin/config/email
func (h *SystemConfigHandler) UpdateEmailConfig(c *gin.Context) {
	var req services.UpdateEmailConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.configService.UpdateEmailConfig(&req); err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, h.configService.GetEmailConfig())
}

// GetRetentionConfig returns the cleanup retention settings
// GET /api/admin/config/retention
func (h *SystemConfigHandler) GetRetentionConfig(c *gin.Context) {
	response.Success(c, h.configService.GetRetentionConfig())
}

// UpdateRetentionConfig updates the cleanup retention settings
// PUT /api/admin/config/retention
func (h *SystemConfigHandler) UpdateRetentionConfig(c *gin.Context) {
	var req services.UpdateRetentionConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.configService.UpdateRetentionConfig(&req); err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, h.configService.GetRetentionConfig())
}
