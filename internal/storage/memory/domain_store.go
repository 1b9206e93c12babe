package memory

import (
	"context"
	"sync"
	"time"

	"domainscout/internal/domain"
	"domainscout/internal/storage"
)

// DomainStore is an in-memory implementation of storage.DomainStore.
type DomainStore struct {
	mu    sync.RWMutex
	data  map[string]*domain.Record // keyed by name
	clock func() time.Time
}

// NewDomainStore creates a new in-memory domain store.
func NewDomainStore() *DomainStore {
	return &DomainStore{
		data:  make(map[string]*domain.Record),
		clock: func() time.Time { return time.Now().UTC() },
	}
}

// Compile-time interface check.
var _ storage.DomainStore = (*DomainStore)(nil)

// WithClock sets a custom clock for deterministic timestamps in tests.
func (s *DomainStore) WithClock(clock func() time.Time) *DomainStore {
	s.clock = clock
	return s
}

// FindByName retrieves a record by its domain name. Returns ErrNotFound if not exists.
func (s *DomainStore) FindByName(_ context.Context, name string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[name]
	if !exists {
		return nil, storage.ErrNotFound
	}

	// Return a copy
	recordCopy := *r
	return &recordCopy, nil
}

// Insert adds a new record. Returns ErrDuplicateKey if the name exists.
func (s *DomainStore) Insert(_ context.Context, r *domain.Record) error {
	if r == nil || r.Name == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.Name]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	recordCopy := *r
	now := s.clock()
	recordCopy.CreatedAt = now
	recordCopy.UpdatedAt = now
	s.data[r.Name] = &recordCopy
	return nil
}

// Update replaces the mutable fields of an existing record.
// Returns ErrNotFound if the name does not exist.
func (s *DomainStore) Update(_ context.Context, name string, fields domain.RecordUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, exists := s.data[name]
	if !exists {
		return storage.ErrNotFound
	}

	applyUpdate(r, fields)
	r.UpdatedAt = s.clock()
	return nil
}

// Upsert atomically inserts the record or replaces all mutable fields of
// the existing row. The map write happens under a single lock, so no
// partially written row is ever observable.
func (s *DomainStore) Upsert(_ context.Context, r *domain.Record) (bool, error) {
	if r == nil || r.Name == "" {
		return false, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	existing, exists := s.data[r.Name]
	if exists {
		applyUpdate(existing, domain.RecordUpdate{
			Price:          r.Price,
			ObservedPrice:  r.ObservedPrice,
			Currency:       r.Currency,
			EstimatedPrice: r.EstimatedPrice,
			Score:          r.Score,
			Status:         r.Status,
			Available:      r.Available,
			DropTime:       r.DropTime,
			CrawlTime:      r.CrawlTime,
			Length:         r.Length,
		})
		existing.UpdatedAt = now
		return false, nil
	}

	recordCopy := *r
	recordCopy.CreatedAt = now
	recordCopy.UpdatedAt = now
	s.data[r.Name] = &recordCopy
	return true, nil
}

// Len reports the number of stored records.
func (s *DomainStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func applyUpdate(r *domain.Record, fields domain.RecordUpdate) {
	r.Price = fields.Price
	r.ObservedPrice = fields.ObservedPrice
	r.Currency = fields.Currency
	r.EstimatedPrice = fields.EstimatedPrice
	r.Score = fields.Score
	r.Status = fields.Status
	r.Available = fields.Available
	r.DropTime = fields.DropTime
	r.CrawlTime = fields.CrawlTime
	r.Length = fields.Length
}
