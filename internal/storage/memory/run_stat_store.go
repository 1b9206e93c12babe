package memory

import (
	"context"
	"sort"
	"sync"

	"domainscout/internal/domain"
	"domainscout/internal/storage"
)

// RunStatStore is an in-memory implementation of storage.RunStatStore.
type RunStatStore struct {
	mu    sync.RWMutex
	stats []*domain.RunStat
}

// NewRunStatStore creates a new in-memory run statistic store.
func NewRunStatStore() *RunStatStore {
	return &RunStatStore{}
}

// Compile-time interface check.
var _ storage.RunStatStore = (*RunStatStore)(nil)

// Insert appends a run statistic row.
func (s *RunStatStore) Insert(_ context.Context, stat *domain.RunStat) error {
	if stat == nil || stat.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	statCopy := *stat
	s.stats = append(s.stats, &statCopy)
	return nil
}

// GetByFeed retrieves all runs for a feed, ordered by StartedAt ASC.
func (s *RunStatStore) GetByFeed(_ context.Context, feed string) ([]*domain.RunStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.RunStat
	for _, stat := range s.stats {
		if stat.Feed == feed {
			statCopy := *stat
			result = append(result, &statCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.Before(result[j].StartedAt)
	})

	return result, nil
}

// LastForFeed retrieves the most recent run for a feed.
// Returns ErrNotFound if the feed has never run.
func (s *RunStatStore) LastForFeed(ctx context.Context, feed string) (*domain.RunStat, error) {
	stats, err := s.GetByFeed(ctx, feed)
	if err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		return nil, storage.ErrNotFound
	}
	return stats[len(stats)-1], nil
}
