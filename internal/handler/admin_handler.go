package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/smartmove-bcn/mobility-backend-go/internal/service"
	"github.com/smartmove-bcn/mobility-backend-go/pkg/response"
)

// AdminHandler handles privileged operations
type AdminHandler struct {
	service *service.DashboardService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service *service.DashboardService) *AdminHandler {
	return &AdminHandler{service: service}
}

// Reload handles POST /api/v1/admin/reload: forces a full pipeline re-run
// regardless of file modification times.
func (h *AdminHandler) Reload(c *gin.Context) {
	meta, err := h.service.Reload()
	if err != nil {
		loadFailure(c, err)
		return
	}

	response.Success(c, meta)
}
