package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	auditapp "tessera/internal/application/audit"
	"tessera/internal/domain/subscription"
	"tessera/internal/infrastructure/persistence/models"
	"tessera/internal/infrastructure/repository"
	"tessera/internal/shared/db"
	"tessera/internal/shared/errors"
	"tessera/internal/shared/id"
	"tessera/internal/shared/logger"
)

type serviceFixture struct {
	db      *gorm.DB
	service *Service
	plans   *PlanService
}

func setupServiceFixture(t *testing.T) *serviceFixture {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = gdb.AutoMigrate(
		&models.PlanModel{},
		&models.SubscriptionModel{},
		&models.SubscriptionHistoryModel{},
		&models.AuditLogModel{},
	)
	require.NoError(t, err)

	log := logger.NewLogger()
	subRepo := repository.NewSubscriptionRepository(gdb, log)
	planRepo := repository.NewPlanRepository(gdb, log)
	historyRepo := repository.NewSubscriptionHistoryRepository(gdb, log)
	auditRepo := repository.NewAuditLogRepository(gdb, log)
	txManager := db.NewTransactionManager(gdb)
	auditSvc := auditapp.NewService(auditRepo, log)

	return &serviceFixture{
		db:      gdb,
		service: NewService(subRepo, planRepo, historyRepo, txManager, auditSvc, log),
		plans:   NewPlanService(planRepo, auditSvc, log),
	}
}

func (f *serviceFixture) createPlan(t *testing.T, name string, price, yearlyPrice int64, trialDays int) uint {
	t.Helper()
	plan, err := subscription.NewPlan(id.MustGenerateWithPrefix(id.PrefixPlan, id.DefaultLength), name, "", price, yearlyPrice, trialDays)
	require.NoError(t, err)

	planRepo := repository.NewPlanRepository(f.db, logger.NewLogger())
	require.NoError(t, planRepo.Create(context.Background(), plan))
	return plan.ID()
}

func TestService_Start_WithTrial(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	planID := f.createPlan(t, "Starter", 2900, 29000, 14)

	dto, err := f.service.Start(ctx, StartCommand{
		OrganizationID:   1,
		PlanID:           planID,
		BillingCycle:     subscription.BillingCycleMonthly,
		WithTrial:        true,
		PaymentProvider:  "stripe",
		PaymentReference: "cus_abc123",
		ActorUserID:      7,
	})
	require.NoError(t, err)

	assert.Equal(t, string(subscription.StatusTrial), dto.Status)
	assert.True(t, dto.IsTrial)
	assert.Equal(t, "Starter", dto.PlanName)
	require.NotNil(t, dto.TrialEndDate)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 14), *dto.TrialEndDate, time.Minute)

	// The billing reference survives the round trip through the store.
	stored, err := f.service.GetForOrganization(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "stripe", stored.PaymentProvider)
	assert.Equal(t, "cus_abc123", stored.PaymentReference)

	history, total, err := f.service.History(ctx, 1, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, history, 1)
	assert.Equal(t, string(subscription.ChangeTypeTrialStart), history[0].ChangeType)
}

func TestService_Start_ReplacesExistingActive(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	starterID := f.createPlan(t, "Starter", 2900, 29000, 0)
	proID := f.createPlan(t, "Pro", 9900, 99000, 0)

	first, err := f.service.Start(ctx, StartCommand{
		OrganizationID: 1, PlanID: starterID,
		BillingCycle: subscription.BillingCycleMonthly, ActorUserID: 7,
	})
	require.NoError(t, err)

	second, err := f.service.Start(ctx, StartCommand{
		OrganizationID: 1, PlanID: proID,
		BillingCycle: subscription.BillingCycleMonthly, ActorUserID: 7,
	})
	require.NoError(t, err)

	current, err := f.service.GetForOrganization(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, second.SID, current.SID)
	assert.Equal(t, "Pro", current.PlanName)

	// The superseded row is retired as EXPIRED, not just deactivated.
	var old models.SubscriptionModel
	require.NoError(t, f.db.Where("sid = ?", first.SID).First(&old).Error)
	assert.False(t, old.IsActive)
	assert.Equal(t, string(subscription.StatusExpired), old.Status)
}

func TestService_Start_ArchivedPlanRejected(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	planID := f.createPlan(t, "Legacy", 1900, 0, 0)

	require.NoError(t, f.plans.ArchivePlan(ctx, planID, 1))

	_, err := f.service.Start(ctx, StartCommand{
		OrganizationID: 1, PlanID: planID,
		BillingCycle: subscription.BillingCycleMonthly, ActorUserID: 7,
	})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestService_ChangePlan_UpgradeAndDowngrade(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	starterID := f.createPlan(t, "Starter", 2900, 29000, 0)
	proID := f.createPlan(t, "Pro", 9900, 99000, 0)

	_, err := f.service.Start(ctx, StartCommand{
		OrganizationID: 1, PlanID: starterID,
		BillingCycle: subscription.BillingCycleMonthly, ActorUserID: 7,
	})
	require.NoError(t, err)

	upgraded, err := f.service.ChangePlan(ctx, ChangePlanCommand{
		OrganizationID: 1, NewPlanID: proID,
		BillingCycle: subscription.BillingCycleMonthly, ActorUserID: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, proID, upgraded.PlanID)

	downgraded, err := f.service.ChangePlan(ctx, ChangePlanCommand{
		OrganizationID: 1, NewPlanID: starterID,
		BillingCycle: subscription.BillingCycleMonthly, ActorUserID: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, starterID, downgraded.PlanID)

	history, _, err := f.service.History(ctx, 1, 1, 10)
	require.NoError(t, err)
	require.Len(t, history, 3)

	// Newest first.
	assert.Equal(t, string(subscription.ChangeTypeDowngrade), history[0].ChangeType)
	assert.Equal(t, string(subscription.ChangeTypeUpgrade), history[1].ChangeType)
}

func TestService_ChangePlan_SamePlanRejected(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	starterID := f.createPlan(t, "Starter", 2900, 29000, 0)

	_, err := f.service.Start(ctx, StartCommand{
		OrganizationID: 1, PlanID: starterID,
		BillingCycle: subscription.BillingCycleMonthly, ActorUserID: 7,
	})
	require.NoError(t, err)

	_, err = f.service.ChangePlan(ctx, ChangePlanCommand{
		OrganizationID: 1, NewPlanID: starterID,
		BillingCycle: subscription.BillingCycleMonthly, ActorUserID: 7,
	})
	require.Error(t, err)
	assert.True(t, errors.IsBadRequestError(err))
}

func TestService_ExtendTrial(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	planID := f.createPlan(t, "Starter", 2900, 29000, 14)

	started, err := f.service.Start(ctx, StartCommand{
		OrganizationID: 1, PlanID: planID,
		BillingCycle: subscription.BillingCycleMonthly, WithTrial: true, ActorUserID: 7,
	})
	require.NoError(t, err)
	require.NotNil(t, started.TrialEndDate)

	extended, err := f.service.ExtendTrial(ctx, ExtendTrialCommand{
		OrganizationID: 1, Days: 7, ActorUserID: 7, Note: "sales courtesy",
	})
	require.NoError(t, err)
	require.NotNil(t, extended.TrialEndDate)
	assert.WithinDuration(t, started.TrialEndDate.AddDate(0, 0, 7), *extended.TrialEndDate, time.Minute)
}

func TestService_ExtendTrial_NotTrialing(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	planID := f.createPlan(t, "Starter", 2900, 29000, 0)

	_, err := f.service.Start(ctx, StartCommand{
		OrganizationID: 1, PlanID: planID,
		BillingCycle: subscription.BillingCycleMonthly, ActorUserID: 7,
	})
	require.NoError(t, err)

	_, err = f.service.ExtendTrial(ctx, ExtendTrialCommand{
		OrganizationID: 1, Days: 7, ActorUserID: 7,
	})
	require.Error(t, err)
	assert.True(t, errors.IsBadRequestError(err))
}

func TestService_CancelAndOverride(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	planID := f.createPlan(t, "Pro", 9900, 99000, 0)

	_, err := f.service.Start(ctx, StartCommand{
		OrganizationID: 1, PlanID: planID,
		BillingCycle: subscription.BillingCycleYearly, ActorUserID: 7,
	})
	require.NoError(t, err)

	cancelled, err := f.service.Cancel(ctx, CancelCommand{
		OrganizationID: 1, ActorUserID: 7, Note: "churn",
	})
	require.NoError(t, err)
	assert.Equal(t, string(subscription.StatusCanceled), cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	restored, err := f.service.Override(ctx, OverrideCommand{
		OrganizationID: 1, Status: subscription.StatusActive,
		ActorUserID: 7, Note: "billing dispute resolved",
	})
	require.NoError(t, err)
	assert.Equal(t, string(subscription.StatusActive), restored.Status)
}

func TestService_Cancel_AlreadyCancelled(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	planID := f.createPlan(t, "Pro", 9900, 99000, 0)

	_, err := f.service.Start(ctx, StartCommand{
		OrganizationID: 1, PlanID: planID,
		BillingCycle: subscription.BillingCycleMonthly, ActorUserID: 7,
	})
	require.NoError(t, err)

	cancelled, err := f.service.Cancel(ctx, CancelCommand{OrganizationID: 1, ActorUserID: 7})
	require.NoError(t, err)

	_, err = f.service.Cancel(ctx, CancelCommand{OrganizationID: 1, ActorUserID: 7})
	require.Error(t, err)
	assert.True(t, errors.IsBadRequestError(err))

	// The failed second cancel leaves the row untouched.
	current, err := f.service.GetForOrganization(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, string(subscription.StatusCanceled), current.Status)
	assert.Equal(t, cancelled.CancelledAt.Unix(), current.CancelledAt.Unix())
}

func TestService_RenewalSweep(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	planID := f.createPlan(t, "Starter", 2900, 29000, 0)

	started, err := f.service.Start(ctx, StartCommand{
		OrganizationID: 1, PlanID: planID,
		BillingCycle: subscription.BillingCycleMonthly, ActorUserID: 7,
	})
	require.NoError(t, err)

	// Push the renewal date past the grace window.
	overdue := time.Now().AddDate(0, 0, -10)
	err = f.db.Model(&models.SubscriptionModel{}).
		Where("sid = ?", started.SID).
		Update("renewal_date", overdue).Error
	require.NoError(t, err)

	expired, err := f.service.RenewalSweep(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	current, err := f.service.GetForOrganization(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, string(subscription.StatusExpired), current.Status)

	// A second sweep finds nothing left to expire.
	expired, err = f.service.RenewalSweep(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, expired)
}

func TestService_Revenue(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	starterID := f.createPlan(t, "Starter", 2900, 29000, 14)
	proID := f.createPlan(t, "Pro", 9900, 99000, 0)

	_, err := f.service.Start(ctx, StartCommand{
		OrganizationID: 1, PlanID: starterID,
		BillingCycle: subscription.BillingCycleMonthly, ActorUserID: 7,
	})
	require.NoError(t, err)

	_, err = f.service.Start(ctx, StartCommand{
		OrganizationID: 2, PlanID: proID,
		BillingCycle: subscription.BillingCycleYearly, ActorUserID: 7,
	})
	require.NoError(t, err)

	// Trials hold a seat but contribute no revenue.
	_, err = f.service.Start(ctx, StartCommand{
		OrganizationID: 3, PlanID: starterID,
		BillingCycle: subscription.BillingCycleMonthly, WithTrial: true, ActorUserID: 7,
	})
	require.NoError(t, err)

	revenue, err := f.service.Revenue(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, revenue.ActiveCount)
	assert.Equal(t, 1, revenue.TrialCount)
	// Monthly Starter plus the yearly Pro at ten months of monthly price.
	assert.Equal(t, int64(2900+9900*10), revenue.MRR)
}
