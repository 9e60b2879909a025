package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/smartmove-bcn/mobility-backend-go/internal/dataset"
	"github.com/smartmove-bcn/mobility-backend-go/internal/models"
	"github.com/smartmove-bcn/mobility-backend-go/internal/service"
	"github.com/smartmove-bcn/mobility-backend-go/pkg/response"
)

// DashboardHandler handles HTTP requests for the dashboard read models
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// loadFailure maps pipeline failures onto the response taxonomy. Missing
// input files and schema defects (no name column, unknown reference system)
// are configuration problems (503, retryable after fixing the files);
// everything else is a generic load failure with the reason passed through.
func loadFailure(c *gin.Context, err error) {
	switch {
	case errors.Is(err, dataset.ErrMissingFiles):
		response.ServiceUnavailable(c, err.Error())
	case errors.Is(err, dataset.ErrNoNameColumn), errors.Is(err, dataset.ErrUnsupportedCRS):
		response.ServiceUnavailable(c, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}

// GetMap handles GET /api/v1/dashboard/map
func (h *DashboardHandler) GetMap(c *gin.Context) {
	payload, err := h.service.MapData()
	if err != nil {
		loadFailure(c, err)
		return
	}

	response.Success(c, payload)
}

// GetScatter handles GET /api/v1/dashboard/scatter
func (h *DashboardHandler) GetScatter(c *gin.Context) {
	data, err := h.service.Scatter()
	if err != nil {
		loadFailure(c, err)
		return
	}

	response.Success(c, data)
}

// GetRanking handles GET /api/v1/dashboard/ranking
func (h *DashboardHandler) GetRanking(c *gin.Context) {
	var filter models.RankingFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	entries, err := h.service.Ranking(filter.N)
	if err != nil {
		loadFailure(c, err)
		return
	}

	response.Success(c, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

// GetProfile handles GET /api/v1/dashboard/profile
func (h *DashboardHandler) GetProfile(c *gin.Context) {
	profile, err := h.service.Profile()
	if err != nil {
		loadFailure(c, err)
		return
	}

	response.Success(c, profile)
}

// GetZones handles GET /api/v1/dashboard/zones
func (h *DashboardHandler) GetZones(c *gin.Context) {
	response.Success(c, h.service.Zones())
}

// GetMetadata handles GET /api/v1/dashboard/meta
func (h *DashboardHandler) GetMetadata(c *gin.Context) {
	meta, err := h.service.Metadata()
	if err != nil {
		loadFailure(c, err)
		return
	}

	response.Success(c, meta)
}
