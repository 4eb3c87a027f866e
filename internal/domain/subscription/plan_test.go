package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierRank(t *testing.T) {
	assert.Equal(t, TierFree, TierRank("FREE"))
	assert.Equal(t, TierStarter, TierRank("STARTER"))
	assert.Equal(t, TierPro, TierRank("PRO"))
	assert.Equal(t, TierEnterprise, TierRank("ENTERPRISE"))

	// Case and whitespace are normalized.
	assert.Equal(t, TierPro, TierRank(" pro "))

	// Unknown names rank as free.
	assert.Equal(t, TierFree, TierRank("LEGACY_GOLD"))
	assert.Equal(t, TierFree, TierRank(""))
}

func TestClassifyChange(t *testing.T) {
	assert.Equal(t, ChangeTypeUpgrade, ClassifyChange("FREE", "PRO"))
	assert.Equal(t, ChangeTypeDowngrade, ClassifyChange("ENTERPRISE", "STARTER"))

	// Lateral moves classify as upgrades.
	assert.Equal(t, ChangeTypeUpgrade, ClassifyChange("PRO", "PRO"))

	// Unknown plans rank as free, so moving onto one is a downgrade from
	// anything paid.
	assert.Equal(t, ChangeTypeDowngrade, ClassifyChange("STARTER", "UNKNOWN_PLAN"))
	assert.Equal(t, ChangeTypeUpgrade, ClassifyChange("UNKNOWN_PLAN", "FREE"))
}

func TestNewPlan(t *testing.T) {
	plan, err := NewPlan("plan_abc", "PRO", "For growing teams", 4900, 49000, 14)
	require.NoError(t, err)

	assert.Equal(t, "PRO", plan.Name())
	assert.Equal(t, int64(4900), plan.Price())
	assert.Equal(t, PlanStatusActive, plan.Status())
	assert.Equal(t, TierPro, plan.TierRank())
}

func TestNewPlan_InvalidInput(t *testing.T) {
	_, err := NewPlan("plan_abc", "", "", 0, 0, 0)
	assert.Error(t, err)

	_, err = NewPlan("", "FREE", "", 0, 0, 0)
	assert.Error(t, err)

	_, err = NewPlan("plan_abc", "PRO", "", -1, 0, 0)
	assert.Error(t, err)

	_, err = NewPlan("plan_abc", "PRO", "", 100, 0, -5)
	assert.Error(t, err)
}

func TestPlan_Archive(t *testing.T) {
	plan, err := NewPlan("plan_abc", "STARTER", "", 1900, 19000, 0)
	require.NoError(t, err)

	plan.Archive()
	assert.Equal(t, PlanStatusArchived, plan.Status())
	assert.False(t, plan.IsActive())
}
