package handler

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/smartmove-bcn/mobility-backend-go/internal/service"
	"github.com/smartmove-bcn/mobility-backend-go/pkg/response"
)

// SnapshotHandler handles HTTP requests for the load history
type SnapshotHandler struct {
	service *service.SnapshotService
}

// NewSnapshotHandler creates a new snapshot handler
func NewSnapshotHandler(service *service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{service: service}
}

// List handles GET /api/v1/snapshots
func (h *SnapshotHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	snapshots, err := h.service.List(limit)
	if err != nil {
		response.InternalError(c, "Failed to list snapshots")
		return
	}

	response.Success(c, gin.H{
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}

// Rows handles GET /api/v1/snapshots/:id/rows
func (h *SnapshotHandler) Rows(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid snapshot id")
		return
	}

	rows, err := h.service.Rows(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.NotFound(c, "Snapshot not found")
			return
		}
		response.InternalError(c, "Failed to load snapshot rows")
		return
	}

	response.Success(c, gin.H{
		"rows":  rows,
		"count": len(rows),
	})
}
