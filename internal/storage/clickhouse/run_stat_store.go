package clickhouse

import (
	"context"
	"fmt"
	"time"

	"domainscout/internal/domain"
	"domainscout/internal/storage"
)

// RunStatStore implements storage.RunStatStore using ClickHouse.
// run_stats is append-only; MergeTree does not enforce uniqueness and the
// pipeline never writes the same run twice.
type RunStatStore struct {
	conn *Conn
}

// NewRunStatStore creates a new RunStatStore.
func NewRunStatStore(conn *Conn) *RunStatStore {
	return &RunStatStore{conn: conn}
}

// Compile-time interface check.
var _ storage.RunStatStore = (*RunStatStore)(nil)

// Insert appends a run statistic row.
func (s *RunStatStore) Insert(ctx context.Context, stat *domain.RunStat) error {
	if stat == nil || stat.RunID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO run_stats (
			run_id, feed, state, checked, inserted, updated, errors,
			started_at, finished_at, duration_ms
		)
	`

	batch, err := s.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	err = batch.Append(
		stat.RunID,
		stat.Feed,
		stat.State,
		uint32(stat.Checked),
		uint32(stat.Inserted),
		uint32(stat.Updated),
		uint32(stat.Errors),
		stat.StartedAt,
		stat.FinishedAt,
		stat.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByFeed retrieves all runs for a feed, ordered by StartedAt ASC.
func (s *RunStatStore) GetByFeed(ctx context.Context, feed string) ([]*domain.RunStat, error) {
	query := `
		SELECT run_id, feed, state, checked, inserted, updated, errors,
		       started_at, finished_at, duration_ms
		FROM run_stats
		WHERE feed = ?
		ORDER BY started_at ASC, run_id ASC
	`

	rows, err := s.conn.Query(ctx, query, feed)
	if err != nil {
		return nil, fmt.Errorf("get runs by feed: %w", err)
	}
	defer rows.Close()

	var stats []*domain.RunStat
	for rows.Next() {
		stat, err := scanRunStat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run stat row: %w", err)
		}
		stats = append(stats, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run stat rows: %w", err)
	}
	return stats, nil
}

// LastForFeed retrieves the most recent run for a feed.
// Returns ErrNotFound if the feed has never run.
func (s *RunStatStore) LastForFeed(ctx context.Context, feed string) (*domain.RunStat, error) {
	query := `
		SELECT run_id, feed, state, checked, inserted, updated, errors,
		       started_at, finished_at, duration_ms
		FROM run_stats
		WHERE feed = ?
		ORDER BY started_at DESC, run_id DESC
		LIMIT 1
	`

	rows, err := s.conn.Query(ctx, query, feed)
	if err != nil {
		return nil, fmt.Errorf("get last run for feed: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate run stat rows: %w", err)
		}
		return nil, storage.ErrNotFound
	}

	stat, err := scanRunStat(rows)
	if err != nil {
		return nil, fmt.Errorf("scan run stat row: %w", err)
	}
	return stat, nil
}

// rowScanner matches the Scan method shared by driver rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRunStat(row rowScanner) (*domain.RunStat, error) {
	var stat domain.RunStat
	var checked, inserted, updated, errCount uint32
	var startedAt, finishedAt time.Time

	err := row.Scan(
		&stat.RunID,
		&stat.Feed,
		&stat.State,
		&checked,
		&inserted,
		&updated,
		&errCount,
		&startedAt,
		&finishedAt,
		&stat.DurationMs,
	)
	if err != nil {
		return nil, err
	}

	stat.Checked = int(checked)
	stat.Inserted = int(inserted)
	stat.Updated = int(updated)
	stat.Errors = int(errCount)
	stat.StartedAt = startedAt
	stat.FinishedAt = finishedAt
	return &stat, nil
}
