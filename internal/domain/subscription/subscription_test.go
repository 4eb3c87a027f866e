package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func newTrialSubscription(t *testing.T) *Subscription {
	t.Helper()
	sub, err := NewSubscription("sub_trial1", 1, 1, BillingCycleMonthly, 14)
	require.NoError(t, err)
	require.NotNil(t, sub)
	return sub
}

func newActiveSubscription(t *testing.T) *Subscription {
	t.Helper()
	sub, err := NewSubscription("sub_active1", 1, 1, BillingCycleMonthly, 0)
	require.NoError(t, err)
	require.NotNil(t, sub)
	return sub
}

// requireTrialInvariant asserts the trial flag, status, and date coupling
// hold in both directions.
func requireTrialInvariant(t *testing.T, sub *Subscription) {
	t.Helper()
	if sub.IsTrial() {
		require.Equal(t, StatusTrial, sub.Status())
		require.NotNil(t, sub.TrialEndDate())
		require.True(t, sub.TrialEndDate().Equal(sub.RenewalDate()))
	} else {
		require.Nil(t, sub.TrialEndDate())
	}
}

func TestNewSubscription_WithTrial(t *testing.T) {
	sub := newTrialSubscription(t)

	assert.Equal(t, StatusTrial, sub.Status())
	assert.True(t, sub.IsTrial())
	assert.True(t, sub.IsActive())
	assert.True(t, sub.IsBillable())
	requireTrialInvariant(t, sub)

	wantEnd := time.Now().AddDate(0, 0, 14)
	assert.WithinDuration(t, wantEnd, *sub.TrialEndDate(), time.Minute)
}

func TestNewSubscription_WithoutTrial(t *testing.T) {
	sub := newActiveSubscription(t)

	assert.Equal(t, StatusActive, sub.Status())
	assert.False(t, sub.IsTrial())
	assert.Nil(t, sub.TrialEndDate())
	assert.WithinDuration(t, time.Now().AddDate(0, 1, 0), sub.RenewalDate(), time.Minute)
}

func TestNewSubscription_InvalidInput(t *testing.T) {
	_, err := NewSubscription("", 1, 1, BillingCycleMonthly, 0)
	assert.Error(t, err)

	_, err = NewSubscription("sub_x", 0, 1, BillingCycleMonthly, 0)
	assert.Error(t, err)

	_, err = NewSubscription("sub_x", 1, 0, BillingCycleMonthly, 0)
	assert.Error(t, err)

	_, err = NewSubscription("sub_x", 1, 1, BillingCycle("WEEKLY"), 0)
	assert.Error(t, err)

	_, err = NewSubscription("sub_x", 1, 1, BillingCycleMonthly, -1)
	assert.Error(t, err)
}

func TestApplyPlanChange_EndsTrial(t *testing.T) {
	sub := newTrialSubscription(t)

	err := sub.ApplyPlanChange(2, BillingCycleYearly)
	require.NoError(t, err)

	assert.Equal(t, StatusActive, sub.Status())
	assert.False(t, sub.IsTrial())
	assert.Nil(t, sub.TrialEndDate())
	assert.Equal(t, uint(2), sub.PlanID())
	assert.Equal(t, BillingCycleYearly, sub.BillingCycle())
	assert.WithinDuration(t, time.Now().AddDate(1, 0, 0), sub.RenewalDate(), time.Minute)
	requireTrialInvariant(t, sub)
}

func TestApplyPlanChange_SamePlan(t *testing.T) {
	sub := newActiveSubscription(t)

	err := sub.ApplyPlanChange(sub.PlanID(), sub.BillingCycle())
	assert.ErrorIs(t, err, ErrSamePlan)
}

func TestApplyPlanChange_SamePlanDifferentCycle(t *testing.T) {
	sub := newActiveSubscription(t)

	err := sub.ApplyPlanChange(sub.PlanID(), BillingCycleYearly)
	require.NoError(t, err)
	assert.Equal(t, BillingCycleYearly, sub.BillingCycle())
}

func TestApplyPlanChange_ReactivatesCancelled(t *testing.T) {
	sub := newActiveSubscription(t)
	require.NoError(t, sub.Cancel())
	require.Equal(t, StatusCanceled, sub.Status())

	err := sub.ApplyPlanChange(2, BillingCycleMonthly)
	require.NoError(t, err)

	assert.Equal(t, StatusActive, sub.Status())
	assert.Nil(t, sub.CancelledAt())
}

func TestApplyPlanChange_SamePlanFromCancelled(t *testing.T) {
	// Returning to the same plan after cancellation is a reactivation,
	// not a same-plan rejection.
	sub := newActiveSubscription(t)
	planID := sub.PlanID()
	require.NoError(t, sub.Cancel())

	err := sub.ApplyPlanChange(planID, BillingCycleMonthly)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, sub.Status())
}

func TestApplyPlanChange_IncrementsVersion(t *testing.T) {
	sub := newActiveSubscription(t)
	v := sub.Version()

	require.NoError(t, sub.ApplyPlanChange(2, BillingCycleMonthly))
	assert.Equal(t, v+1, sub.Version())
}

func TestExtendTrial(t *testing.T) {
	sub := newTrialSubscription(t)
	before := *sub.TrialEndDate()

	err := sub.ExtendTrial(7)
	require.NoError(t, err)

	assert.True(t, sub.TrialEndDate().Equal(before.AddDate(0, 0, 7)))
	requireTrialInvariant(t, sub)
}

func TestExtendTrial_LapsedTrialExtendsFromNow(t *testing.T) {
	// The stored trial end is a month gone; the extension counts from now,
	// not from the stale end.
	start := time.Now().AddDate(0, 0, -44)
	end := start.AddDate(0, 0, 14)
	sub, err := ReconstructSubscription(
		1, "sub_lapsed1", 1, 1,
		StatusTrial, BillingCycleMonthly,
		true, &end,
		start, end,
		nil,
		"", "",
		true, 1,
		start, start,
	)
	require.NoError(t, err)

	require.NoError(t, sub.ExtendTrial(7))

	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), *sub.TrialEndDate(), time.Minute)
	assert.True(t, sub.TrialEndDate().After(time.Now()))
	requireTrialInvariant(t, sub)
}

func TestExtendTrial_NotTrialing(t *testing.T) {
	sub := newActiveSubscription(t)

	err := sub.ExtendTrial(7)
	assert.ErrorIs(t, err, ErrNotTrialing)
}

func TestExtendTrial_InvalidDays(t *testing.T) {
	sub := newTrialSubscription(t)

	assert.Error(t, sub.ExtendTrial(0))
	assert.Error(t, sub.ExtendTrial(-3))
}

func TestConvertTrial(t *testing.T) {
	sub := newTrialSubscription(t)

	err := sub.ConvertTrial()
	require.NoError(t, err)

	assert.Equal(t, StatusActive, sub.Status())
	assert.False(t, sub.IsTrial())
	assert.Nil(t, sub.TrialEndDate())
	assert.WithinDuration(t, time.Now().AddDate(0, 1, 0), sub.RenewalDate(), time.Minute)
}

func TestCancel(t *testing.T) {
	sub := newActiveSubscription(t)

	err := sub.Cancel()
	require.NoError(t, err)

	assert.Equal(t, StatusCanceled, sub.Status())
	assert.NotNil(t, sub.CancelledAt())
	assert.False(t, sub.IsBillable())
}

func TestCancel_DuringTrialClearsTrial(t *testing.T) {
	sub := newTrialSubscription(t)

	err := sub.Cancel()
	require.NoError(t, err)

	assert.False(t, sub.IsTrial())
	assert.Nil(t, sub.TrialEndDate())
	requireTrialInvariant(t, sub)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	sub := newActiveSubscription(t)
	require.NoError(t, sub.Cancel())

	err := sub.Cancel()
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancel_Expired(t *testing.T) {
	sub := newActiveSubscription(t)
	require.NoError(t, sub.ForceExpire())

	err := sub.Cancel()
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestReactivate(t *testing.T) {
	sub := newActiveSubscription(t)
	require.NoError(t, sub.Cancel())

	err := sub.Reactivate()
	require.NoError(t, err)

	assert.Equal(t, StatusActive, sub.Status())
	assert.Nil(t, sub.CancelledAt())
	// Reactivation after a cancelled trial never restores the trial.
	assert.False(t, sub.IsTrial())
}

func TestReactivate_CancelledTrialDoesNotResumeTrial(t *testing.T) {
	sub := newTrialSubscription(t)
	require.NoError(t, sub.Cancel())

	require.NoError(t, sub.Reactivate())

	assert.Equal(t, StatusActive, sub.Status())
	assert.False(t, sub.IsTrial())
	assert.Nil(t, sub.TrialEndDate())
}

func TestReactivate_FromActive(t *testing.T) {
	sub := newActiveSubscription(t)

	err := sub.Reactivate()
	assert.Error(t, err)
}

func TestMarkPastDue(t *testing.T) {
	sub := newActiveSubscription(t)

	require.NoError(t, sub.MarkPastDue())
	assert.Equal(t, StatusPastDue, sub.Status())
	assert.False(t, sub.IsBillable())
}

func TestMarkPastDue_FromCancelled(t *testing.T) {
	sub := newActiveSubscription(t)
	require.NoError(t, sub.Cancel())

	assert.Error(t, sub.MarkPastDue())
}

func TestForceExpire_FromAnyState(t *testing.T) {
	for _, setup := range []func(*testing.T) *Subscription{
		newTrialSubscription,
		newActiveSubscription,
		func(t *testing.T) *Subscription {
			sub := newActiveSubscription(t)
			require.NoError(t, sub.Cancel())
			return sub
		},
		func(t *testing.T) *Subscription {
			sub := newActiveSubscription(t)
			require.NoError(t, sub.MarkPastDue())
			return sub
		},
	} {
		sub := setup(t)
		require.NoError(t, sub.ForceExpire())
		assert.Equal(t, StatusExpired, sub.Status())
		assert.False(t, sub.IsTrial())
		requireTrialInvariant(t, sub)
	}
}

func TestDeactivate(t *testing.T) {
	sub := newActiveSubscription(t)

	sub.Deactivate()
	assert.False(t, sub.IsActive())

	// Deactivated rows reject lifecycle transitions.
	assert.ErrorIs(t, sub.Cancel(), ErrInactive)
	assert.ErrorIs(t, sub.ApplyPlanChange(2, BillingCycleMonthly), ErrInactive)
	assert.ErrorIs(t, sub.ForceExpire(), ErrInactive)

	v := sub.Version()
	sub.Deactivate()
	assert.Equal(t, v, sub.Version(), "second deactivate should be a no-op")
}

func TestNextRenewalDate_CalendarArithmetic(t *testing.T) {
	jan31 := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	monthly := NextRenewalDate(jan31, BillingCycleMonthly)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), monthly)

	yearly := NextRenewalDate(jan31, BillingCycleYearly)
	assert.Equal(t, time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC), yearly)
}
