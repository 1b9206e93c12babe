package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domainscout/internal/domain"
	"domainscout/internal/storage"
	"domainscout/internal/storage/postgres"
)

func testRecord(name string) *domain.Record {
	dropTime := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	return &domain.Record{
		Name:           name,
		Price:          ptr(150.0),
		ObservedPrice:  ptr(12.99),
		Currency:       "USD",
		EstimatedPrice: 2000,
		Score:          75,
		Status:         domain.StatusAvailable,
		Available:      true,
		DropTime:       &dropTime,
		Extension:      "com",
		TLD:            "com",
		Length:         len(name) - len(".com"),
	}
}

func TestDomainStore_InsertAndFindByName(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewDomainStore(pool)
	ctx := context.Background()

	rec := testRecord("example.com")
	require.NoError(t, store.Insert(ctx, rec))

	got, err := store.FindByName(ctx, "example.com")
	require.NoError(t, err)

	assert.Equal(t, rec.Name, got.Name)
	assert.Equal(t, *rec.Price, *got.Price)
	assert.Equal(t, *rec.ObservedPrice, *got.ObservedPrice)
	assert.Equal(t, rec.Currency, got.Currency)
	assert.Equal(t, rec.EstimatedPrice, got.EstimatedPrice)
	assert.Equal(t, rec.Score, got.Score)
	assert.Equal(t, rec.Status, got.Status)
	assert.Equal(t, rec.Available, got.Available)
	assert.True(t, got.DropTime.Equal(*rec.DropTime))
	assert.Nil(t, got.CrawlTime)
	assert.Equal(t, rec.Extension, got.Extension)
	assert.Equal(t, rec.TLD, got.TLD)
	assert.Equal(t, rec.Length, got.Length)
	assert.NotZero(t, got.CreatedAt)
	assert.NotZero(t, got.UpdatedAt)
}

func TestDomainStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewDomainStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testRecord("dup.com")))
	err := store.Insert(ctx, testRecord("dup.com"))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestDomainStore_FindByNameNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewDomainStore(pool)

	_, err := store.FindByName(context.Background(), "missing.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDomainStore_Update(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewDomainStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testRecord("mutable.com")))

	err := store.Update(ctx, "mutable.com", domain.RecordUpdate{
		Price:          ptr(300.0),
		Currency:       "EUR",
		EstimatedPrice: 5000,
		Score:          90,
		Status:         domain.StatusTaken,
		Available:      false,
		Length:         7,
	})
	require.NoError(t, err)

	got, err := store.FindByName(ctx, "mutable.com")
	require.NoError(t, err)
	assert.Equal(t, 300.0, *got.Price)
	assert.Nil(t, got.ObservedPrice, "absent update fields are cleared")
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, 5000.0, got.EstimatedPrice)
	assert.Equal(t, 90, got.Score)
	assert.Equal(t, domain.StatusTaken, got.Status)
	assert.False(t, got.Available)
	assert.Equal(t, 7, got.Length)
}

func TestDomainStore_UpdateNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewDomainStore(pool)

	err := store.Update(context.Background(), "missing.com", domain.RecordUpdate{Score: 50})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDomainStore_Upsert(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewDomainStore(pool)
	ctx := context.Background()

	inserted, err := store.Upsert(ctx, testRecord("upsert.com"))
	require.NoError(t, err)
	assert.True(t, inserted, "first upsert reports an insert")

	first, err := store.FindByName(ctx, "upsert.com")
	require.NoError(t, err)

	second := testRecord("upsert.com")
	second.Score = 95
	second.Status = domain.StatusAvailableSoon
	second.ObservedPrice = nil

	inserted, err = store.Upsert(ctx, second)
	require.NoError(t, err)
	assert.False(t, inserted, "second upsert reports an update")

	got, err := store.FindByName(ctx, "upsert.com")
	require.NoError(t, err)
	assert.Equal(t, 95, got.Score)
	assert.Equal(t, domain.StatusAvailableSoon, got.Status)
	assert.Nil(t, got.ObservedPrice)
	assert.True(t, got.CreatedAt.Equal(first.CreatedAt), "CreatedAt survives upserts")
}

func TestDomainStore_UpsertInvalid(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewDomainStore(pool)

	_, err := store.Upsert(context.Background(), &domain.Record{})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
