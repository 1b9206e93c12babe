package storage

import (
	"context"

	"domainscout/internal/domain"
)

// DomainStore provides access to valued-domain storage. The store enforces
// that no two rows share a Name.
type DomainStore interface {
	// FindByName retrieves a record by its domain name.
	// Returns ErrNotFound if not exists.
	FindByName(ctx context.Context, name string) (*domain.Record, error)

	// Insert adds a new record. Returns ErrDuplicateKey if the name exists.
	Insert(ctx context.Context, r *domain.Record) error

	// Update replaces the mutable fields of an existing record.
	// Returns ErrNotFound if the name does not exist.
	Update(ctx context.Context, name string, fields domain.RecordUpdate) error

	// Upsert atomically inserts the record or replaces all mutable fields
	// of the existing row with the same name. Reports whether a new row
	// was created. There is no window in which a concurrent writer can
	// observe a partially written row.
	Upsert(ctx context.Context, r *domain.Record) (inserted bool, err error)
}

// RunStatStore provides access to the append-only pipeline-run history.
type RunStatStore interface {
	// Insert appends a run statistic row.
	Insert(ctx context.Context, s *domain.RunStat) error

	// GetByFeed retrieves all runs for a feed, ordered by StartedAt ASC.
	GetByFeed(ctx context.Context, feed string) ([]*domain.RunStat, error)

	// LastForFeed retrieves the most recent run for a feed.
	// Returns ErrNotFound if the feed has never run.
	LastForFeed(ctx context.Context, feed string) (*domain.RunStat, error)
}
