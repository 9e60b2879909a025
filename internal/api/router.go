package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartmove-bcn/mobility-backend-go/internal/config"
	"github.com/smartmove-bcn/mobility-backend-go/internal/handler"
	"github.com/smartmove-bcn/mobility-backend-go/internal/middleware"
)

// Handlers bundles the route handlers wired by the entrypoint.
type Handlers struct {
	Dashboard *handler.DashboardHandler
	Snapshots *handler.SnapshotHandler
	Admin     *handler.AdminHandler
}

// SetupRouter wires middleware and routes.
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS: the dashboard frontend is served from a different origin.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Mobility Dashboard API is running",
		})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(120, time.Minute))
	{
		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/map", h.Dashboard.GetMap)
			dashboard.GET("/scatter", h.Dashboard.GetScatter)
			dashboard.GET("/ranking", h.Dashboard.GetRanking)
			dashboard.GET("/profile", h.Dashboard.GetProfile)
			dashboard.GET("/zones", h.Dashboard.GetZones)
			dashboard.GET("/meta", h.Dashboard.GetMetadata)
		}

		snapshots := api.Group("/snapshots")
		{
			snapshots.GET("", h.Snapshots.List)
			snapshots.GET("/:id/rows", h.Snapshots.Rows)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.JWTAuth(cfg.JWTSecret))
		{
			admin.POST("/reload", h.Admin.Reload)
		}
	}

	return r
}
