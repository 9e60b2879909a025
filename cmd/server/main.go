package main

import (
	"log"

	"github.com/smartmove-bcn/mobility-backend-go/internal/api"
	"github.com/smartmove-bcn/mobility-backend-go/internal/config"
	"github.com/smartmove-bcn/mobility-backend-go/internal/database"
	"github.com/smartmove-bcn/mobility-backend-go/internal/dataset"
	"github.com/smartmove-bcn/mobility-backend-go/internal/handler"
	"github.com/smartmove-bcn/mobility-backend-go/internal/models"
	"github.com/smartmove-bcn/mobility-backend-go/internal/repository"
	"github.com/smartmove-bcn/mobility-backend-go/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	store := dataset.NewStore(cfg.MeasuresPath, cfg.BoundariesPath)

	snapshotRepo := repository.NewSnapshotRepository(db)
	snapshotService := service.NewSnapshotService(snapshotRepo)
	dashboardService := service.NewDashboardService(store)

	// Persist every successful load into the history.
	store.OnLoad(func(ds *models.Dataset) {
		if _, err := snapshotService.Persist(ds); err != nil {
			log.Printf("Failed to persist load snapshot: %v", err)
		}
	})

	if cfg.WatchFiles {
		watcher, err := dataset.NewWatcher(store)
		if err != nil {
			log.Printf("File watcher unavailable, relying on mtime checks: %v", err)
		} else {
			watcher.Start()
			defer watcher.Stop()
		}
	}

	// Warm the cache; a failure here is not fatal, the dataset may appear
	// later and the next request retries.
	if _, err := store.Dataset(); err != nil {
		log.Printf("Initial dataset load failed: %v", err)
	}

	router := api.SetupRouter(cfg, api.Handlers{
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Snapshots: handler.NewSnapshotHandler(snapshotService),
		Admin:     handler.NewAdminHandler(dashboardService),
	})

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
