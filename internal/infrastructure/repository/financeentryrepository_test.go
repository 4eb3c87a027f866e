package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tessera/internal/domain/finance"
	"tessera/internal/infrastructure/persistence/models"
	"tessera/internal/shared/id"
	"tessera/internal/shared/logger"
)

func setupFinanceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.FinanceEntryModel{})
	require.NoError(t, err)

	return db
}

func createTestEntry(t *testing.T, orgID uint, entryType finance.EntryType, amount int64, category string, occurredAt time.Time) *finance.Entry {
	sid := id.MustGenerateWithPrefix(id.PrefixFinanceEntry, 12)
	entry, err := finance.NewEntry(sid, orgID, entryType, amount, "USD", category, "", occurredAt, 1)
	require.NoError(t, err)
	return entry
}

func TestFinanceEntryRepository_CreateAndGet(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewFinanceEntryRepository(db, logger.NewLogger())
	ctx := context.Background()

	entry := createTestEntry(t, 1, finance.EntryTypeIncome, 12500, "subscriptions", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, entry))
	assert.NotZero(t, entry.ID())

	found, err := repo.GetByID(ctx, entry.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, entry.SID(), found.SID())
	assert.Equal(t, finance.EntryTypeIncome, found.Type())
	assert.Equal(t, int64(12500), found.Amount())
	assert.Equal(t, "USD", found.Currency())

	bySID, err := repo.GetBySID(ctx, entry.SID())
	require.NoError(t, err)
	require.NotNil(t, bySID)
	assert.Equal(t, entry.ID(), bySID.ID())
}

func TestFinanceEntryRepository_GetByID_NotFound(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewFinanceEntryRepository(db, logger.NewLogger())

	found, err := repo.GetByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFinanceEntryRepository_List_Filtering(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewFinanceEntryRepository(db, logger.NewLogger())
	ctx := context.Background()

	march := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	april := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, createTestEntry(t, 1, finance.EntryTypeIncome, 10000, "subscriptions", march)))
	require.NoError(t, repo.Create(ctx, createTestEntry(t, 1, finance.EntryTypeExpense, 4000, "hosting", march)))
	require.NoError(t, repo.Create(ctx, createTestEntry(t, 1, finance.EntryTypeIncome, 20000, "subscriptions", april)))
	require.NoError(t, repo.Create(ctx, createTestEntry(t, 2, finance.EntryTypeIncome, 5000, "consulting", march)))

	t.Run("filters by organization", func(t *testing.T) {
		entries, total, err := repo.List(ctx, finance.Filter{OrganizationID: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, entries, 3)
	})

	t.Run("filters by type", func(t *testing.T) {
		entries, total, err := repo.List(ctx, finance.Filter{OrganizationID: 1, Type: finance.EntryTypeExpense})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, entries, 1)
		assert.Equal(t, "hosting", entries[0].Category())
	})

	t.Run("filters by category", func(t *testing.T) {
		_, total, err := repo.List(ctx, finance.Filter{OrganizationID: 1, Category: "subscriptions"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("filters by date range", func(t *testing.T) {
		from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		_, total, err := repo.List(ctx, finance.Filter{OrganizationID: 1, From: &from})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("paginates newest first", func(t *testing.T) {
		entries, total, err := repo.List(ctx, finance.Filter{OrganizationID: 1, Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, entries, 2)
		assert.Equal(t, int64(20000), entries[0].Amount())
	})
}

func TestFinanceEntryRepository_Update(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewFinanceEntryRepository(db, logger.NewLogger())
	ctx := context.Background()

	entry := createTestEntry(t, 1, finance.EntryTypeIncome, 10000, "subscriptions", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, entry))

	require.NoError(t, entry.Update(finance.EntryTypeIncome, 15000, "subscriptions", "annual upgrade", entry.OccurredAt()))
	require.NoError(t, repo.Update(ctx, entry))

	found, err := repo.GetByID(ctx, entry.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, int64(15000), found.Amount())
}

func TestFinanceEntryRepository_Delete(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewFinanceEntryRepository(db, logger.NewLogger())
	ctx := context.Background()

	entry := createTestEntry(t, 1, finance.EntryTypeExpense, 4000, "hosting", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, entry))

	require.NoError(t, repo.Delete(ctx, entry.ID()))

	found, err := repo.GetByID(ctx, entry.ID())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFinanceEntryRepository_MonthlySummaries(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewFinanceEntryRepository(db, logger.NewLogger())
	ctx := context.Background()

	march := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, createTestEntry(t, 1, finance.EntryTypeIncome, 10000, "subscriptions", march)))
	require.NoError(t, repo.Create(ctx, createTestEntry(t, 1, finance.EntryTypeIncome, 5000, "consulting", march)))
	require.NoError(t, repo.Create(ctx, createTestEntry(t, 1, finance.EntryTypeExpense, 3000, "hosting", march)))
	require.NoError(t, repo.Create(ctx, createTestEntry(t, 1, finance.EntryTypeIncome, 20000, "subscriptions", april)))
	// Other organizations must not leak into the summary.
	require.NoError(t, repo.Create(ctx, createTestEntry(t, 2, finance.EntryTypeIncome, 99999, "consulting", march)))

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)

	summaries, err := repo.MonthlySummaries(ctx, 1, from, to)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Most recent month first.
	assert.Equal(t, 2026, summaries[0].Year)
	assert.Equal(t, time.April, summaries[0].Month)
	assert.Equal(t, int64(20000), summaries[0].Income)
	assert.Equal(t, int64(0), summaries[0].Expenses)
	assert.Equal(t, int64(20000), summaries[0].Net)

	assert.Equal(t, time.March, summaries[1].Month)
	assert.Equal(t, int64(15000), summaries[1].Income)
	assert.Equal(t, int64(3000), summaries[1].Expenses)
	assert.Equal(t, int64(12000), summaries[1].Net)
}
