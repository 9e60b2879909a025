package service

import (
	"github.com/smartmove-bcn/mobility-backend-go/internal/models"
	"github.com/smartmove-bcn/mobility-backend-go/internal/repository"
)

// SnapshotService handles business logic for the persisted load history
type SnapshotService struct {
	repo *repository.SnapshotRepository
}

// NewSnapshotService creates a new snapshot service
func NewSnapshotService(repo *repository.SnapshotRepository) *SnapshotService {
	return &SnapshotService{repo: repo}
}

// List returns snapshot metadata, newest first.
func (s *SnapshotService) List(limit int) ([]models.SnapshotMeta, error) {
	return s.repo.List(limit)
}

// Rows returns the persisted table of one snapshot.
func (s *SnapshotService) Rows(snapshotID int64) ([]models.SnapshotRow, error) {
	return s.repo.Rows(snapshotID)
}

// Persist stores a freshly prepared dataset in the history.
func (s *SnapshotService) Persist(ds *models.Dataset) (int64, error) {
	return s.repo.Save(ds)
}
