package handlers

import (
	"strconv"

	"github.com/aadilm/taskboard/backend/internal/middleware"
	"github.com/aadilm/taskboard/backend/internal/services"
	"github.com/aadilm/taskboard/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AccessRequestHandler struct {
	requestService *services.AccessRequestService
}

func NewAccessRequestHandler(db *gorm.DB) *AccessRequestHandler {
	return &AccessRequestHandler{
		requestService: services.NewAccessRequestService(db),
	}
}

// Submit files a permission request: create-project rights when no
// project is named, otherwise membership in that project
// POST /api/access-requests
func (h *AccessRequestHandler) Submit(c *gin.Context) {
	var req services.SubmitAccessRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	view, err := h.requestService.Submit(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// ListPending returns the pending requests the caller may act on
// GET /api/access-requests/pending
func (h *AccessRequestHandler) ListPending(c *gin.Context) {
	views, err := h.requestService.ListPending(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, views)
}

// ListMine returns the caller's own requests
// GET /api/access-requests/mine
func (h *AccessRequestHandler) ListMine(c *gin.Context) {
	requests, err := h.requestService.ListMine(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, requests)
}

// Resolve approves or rejects a pending request
// POST /api/access-requests/:id/resolve
func (h *AccessRequestHandler) Resolve(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid request id")
		return
	}

	var req services.ResolveAccessRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	message, err := h.requestService.Resolve(uint(id), *req.Approved, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": message})
}
