package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"domainscout/internal/domain"
	"domainscout/internal/storage"
)

// DomainStore implements storage.DomainStore using PostgreSQL.
type DomainStore struct {
	pool *Pool
}

// NewDomainStore creates a new DomainStore.
func NewDomainStore(pool *Pool) *DomainStore {
	return &DomainStore{pool: pool}
}

// Compile-time interface check.
var _ storage.DomainStore = (*DomainStore)(nil)

const domainColumns = `
	name, price, observed_price, currency, estimated_price, score, status,
	available, drop_time, crawl_time, extension, tld, length, created_at, updated_at
`

// FindByName retrieves a record by its domain name. Returns ErrNotFound if not exists.
func (s *DomainStore) FindByName(ctx context.Context, name string) (*domain.Record, error) {
	query := `SELECT ` + domainColumns + ` FROM domains WHERE name = $1`

	row := s.pool.QueryRow(ctx, query, name)
	r, err := scanRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find domain by name: %w", err)
	}
	return r, nil
}

// Insert adds a new record. Returns ErrDuplicateKey if the name exists.
func (s *DomainStore) Insert(ctx context.Context, r *domain.Record) error {
	if r == nil || r.Name == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO domains (
			name, price, observed_price, currency, estimated_price, score, status,
			available, drop_time, crawl_time, extension, tld, length, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())
	`

	_, err := s.pool.Exec(ctx, query,
		r.Name,
		r.Price,
		r.ObservedPrice,
		r.Currency,
		r.EstimatedPrice,
		r.Score,
		r.Status,
		r.Available,
		r.DropTime,
		r.CrawlTime,
		r.Extension,
		r.TLD,
		r.Length,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert domain: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of an existing record.
// Returns ErrNotFound if the name does not exist.
func (s *DomainStore) Update(ctx context.Context, name string, fields domain.RecordUpdate) error {
	query := `
		UPDATE domains SET
			price = $2, observed_price = $3, currency = $4, estimated_price = $5,
			score = $6, status = $7, available = $8, drop_time = $9,
			crawl_time = $10, length = $11, updated_at = now()
		WHERE name = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		name,
		fields.Price,
		fields.ObservedPrice,
		fields.Currency,
		fields.EstimatedPrice,
		fields.Score,
		fields.Status,
		fields.Available,
		fields.DropTime,
		fields.CrawlTime,
		fields.Length,
	)
	if err != nil {
		return fmt.Errorf("update domain: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Upsert atomically inserts the record or replaces all mutable fields of
// the existing row. Reports whether a new row was created. xmax = 0 holds
// only for freshly inserted tuples, which distinguishes the two paths in
// a single round trip.
func (s *DomainStore) Upsert(ctx context.Context, r *domain.Record) (bool, error) {
	if r == nil || r.Name == "" {
		return false, storage.ErrInvalidInput
	}

	query := `
		INSERT INTO domains (
			name, price, observed_price, currency, estimated_price, score, status,
			available, drop_time, crawl_time, extension, tld, length, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())
		ON CONFLICT (name) DO UPDATE SET
			price = EXCLUDED.price,
			observed_price = EXCLUDED.observed_price,
			currency = EXCLUDED.currency,
			estimated_price = EXCLUDED.estimated_price,
			score = EXCLUDED.score,
			status = EXCLUDED.status,
			available = EXCLUDED.available,
			drop_time = EXCLUDED.drop_time,
			crawl_time = EXCLUDED.crawl_time,
			length = EXCLUDED.length,
			updated_at = now()
		RETURNING (xmax = 0)
	`

	var inserted bool
	err := s.pool.QueryRow(ctx, query,
		r.Name,
		r.Price,
		r.ObservedPrice,
		r.Currency,
		r.EstimatedPrice,
		r.Score,
		r.Status,
		r.Available,
		r.DropTime,
		r.CrawlTime,
		r.Extension,
		r.TLD,
		r.Length,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upsert domain: %w", err)
	}
	return inserted, nil
}

// scanRecord scans a single row into a Record.
func scanRecord(row pgx.Row) (*domain.Record, error) {
	var r domain.Record

	err := row.Scan(
		&r.Name,
		&r.Price,
		&r.ObservedPrice,
		&r.Currency,
		&r.EstimatedPrice,
		&r.Score,
		&r.Status,
		&r.Available,
		&r.DropTime,
		&r.CrawlTime,
		&r.Extension,
		&r.TLD,
		&r.Length,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
