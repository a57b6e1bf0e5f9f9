package handlers

import (
	"strconv"

	"github.com/aadilm/taskboard/backend/internal/middleware"
	"github.com/aadilm/taskboard/backend/internal/services"
	"github.com/aadilm/taskboard/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StatusHandler struct {
	statusService *services.StatusService
}

func NewStatusHandler(db *gorm.DB) *StatusHandler {
	return &StatusHandler{
		statusService: services.NewStatusService(db),
	}
}

// Create adds a column to a project board
// POST /api/statuses
func (h *StatusHandler) Create(c *gin.Context) {
	var req services.CreateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	status, err := h.statusService.Create(&req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, status)
}

// Update renames a column
// PUT /api/statuses/:id
func (h *StatusHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid status id")
		return
	}

	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	status, err := h.statusService.Update(uint(id), &req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, status)
}

// Delete removes an empty column
// DELETE /api/statuses/:id
func (h *StatusHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid status id")
		return
	}

	if err := h.statusService.Delete(uint(id), middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Status deleted successfully"})
}

// ListByProject returns a project's columns in board order
// GET /api/projects/:id/statuses
func (h *StatusHandler) ListByProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	statuses, err := h.statusService.ListByProject(uint(id), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, statuses)
}
