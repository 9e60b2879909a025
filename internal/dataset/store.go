package dataset

import (
	"os"
	"sync"
	"time"

	"github.com/smartmove-bcn/mobility-backend-go/internal/models"
)

// Store memoizes the prepared dataset, keyed on the modification times of
// the two input files. Recomputation is wholesale: any change to either file
// invalidates the whole table on the next access.
type Store struct {
	mu       sync.RWMutex
	pipeline Pipeline
	cached   *models.Dataset
	mMTime   time.Time
	bMTime   time.Time

	// onLoad, when set, runs after every successful load (outside the lock).
	onLoad func(*models.Dataset)
}

// NewStore creates a store over the two input paths.
func NewStore(measuresPath, boundariesPath string) *Store {
	return &Store{
		pipeline: Pipeline{
			MeasuresPath:   measuresPath,
			BoundariesPath: boundariesPath,
		},
	}
}

// OnLoad registers a callback invoked after each successful pipeline run,
// e.g. to persist a snapshot.
func (s *Store) OnLoad(fn func(*models.Dataset)) {
	s.mu.Lock()
	s.onLoad = fn
	s.mu.Unlock()
}

// Dataset returns the cached table, reloading it when either input file
// changed since the last load. Errors are never cached: a failed cycle
// retries on the next call.
func (s *Store) Dataset() (*models.Dataset, error) {
	mTime, bTime, statErr := s.mtimes()

	s.mu.RLock()
	if s.cached != nil && statErr == nil && mTime.Equal(s.mMTime) && bTime.Equal(s.bMTime) {
		ds := s.cached
		s.mu.RUnlock()
		return ds, nil
	}
	s.mu.RUnlock()

	return s.Reload()
}

// Reload forces a pipeline run regardless of cache state.
func (s *Store) Reload() (*models.Dataset, error) {
	ds, err := s.pipeline.Run()
	if err != nil {
		s.mu.Lock()
		s.cached = nil
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.cached = ds
	s.mMTime = ds.MeasuresMTime
	s.bMTime = ds.BoundariesMTime
	onLoad := s.onLoad
	s.mu.Unlock()

	if onLoad != nil {
		onLoad(ds)
	}

	return ds, nil
}

// Invalidate drops the cached table; the next access reloads.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// Paths returns the two input paths the store watches.
func (s *Store) Paths() (measures, boundaries string) {
	return s.pipeline.MeasuresPath, s.pipeline.BoundariesPath
}

func (s *Store) mtimes() (time.Time, time.Time, error) {
	mInfo, err := os.Stat(s.pipeline.MeasuresPath)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	bInfo, err := os.Stat(s.pipeline.BoundariesPath)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return mInfo.ModTime().UTC(), bInfo.ModTime().UTC(), nil
}
