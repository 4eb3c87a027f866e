package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tessera/internal/domain/subscription"
	"tessera/internal/infrastructure/persistence/models"
	apperrors "tessera/internal/shared/errors"
	"tessera/internal/shared/logger"
)

func setupSubscriptionTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.SubscriptionModel{})
	require.NoError(t, err)

	return db
}

func TestSubscriptionRepository_Update_StaleVersionConflicts(t *testing.T) {
	db := setupSubscriptionTestDB(t)
	repo := NewSubscriptionRepository(db, logger.NewLogger())
	ctx := context.Background()

	sub, err := subscription.NewSubscription("sub_race1", 1, 1, subscription.BillingCycleMonthly, 0)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, sub))

	// Two readers load the same row, both mutate, first write wins.
	first, err := repo.GetByID(ctx, sub.ID())
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, sub.ID())
	require.NoError(t, err)

	require.NoError(t, first.Cancel())
	require.NoError(t, repo.Update(ctx, first))

	require.NoError(t, second.Cancel())
	err = repo.Update(ctx, second)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
}

func TestSubscriptionRepository_DeactivateActiveByOrganization(t *testing.T) {
	db := setupSubscriptionTestDB(t)
	repo := NewSubscriptionRepository(db, logger.NewLogger())
	ctx := context.Background()

	sub, err := subscription.NewSubscription("sub_retire1", 1, 1, subscription.BillingCycleMonthly, 0)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, sub))

	count, err := repo.DeactivateActiveByOrganization(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	retired, err := repo.GetByID(ctx, sub.ID())
	require.NoError(t, err)
	assert.False(t, retired.IsActive())
	assert.Equal(t, subscription.StatusExpired, retired.Status())
}
