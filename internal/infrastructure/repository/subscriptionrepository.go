package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tessera/internal/domain/subscription"
	"tessera/internal/infrastructure/persistence/models"
	"tessera/internal/shared/db"
	apperrors "tessera/internal/shared/errors"
	"tessera/internal/shared/logger"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSubscriptionRepository(db *gorm.DB, logger logger.Interface) subscription.Repository {
	return &SubscriptionRepositoryImpl{db: db, logger: logger}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, sub *subscription.Subscription) error {
	model := r.toModel(sub)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription", "error", err, "organization_id", sub.OrganizationID())
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return sub.SetID(model.ID)
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return r.toEntity(&model)
}

func (r *SubscriptionRepositoryImpl) GetBySID(ctx context.Context, sid string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	if err := db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription by SID: %w", err)
	}
	return r.toEntity(&model)
}

func (r *SubscriptionRepositoryImpl) GetActiveByOrganization(ctx context.Context, organizationID uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("organization_id = ? AND is_active = ?", organizationID, true).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}
	return r.toEntity(&model)
}

func (r *SubscriptionRepositoryImpl) List(ctx context.Context, filter subscription.Filter) ([]*subscription.Subscription, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriptionModel{})

	if filter.OrganizationID != 0 {
		query = query.Where("organization_id = ?", filter.OrganizationID)
	}
	if filter.PlanID != 0 {
		query = query.Where("plan_id = ?", filter.PlanID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var subModels []*models.SubscriptionModel
	if err := query.Order("id DESC").Find(&subModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	subs, err := r.toEntities(subModels)
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

func (r *SubscriptionRepositoryImpl) ListByOrganization(ctx context.Context, organizationID uint) ([]*subscription.Subscription, error) {
	var subModels []*models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("organization_id = ?", organizationID).
		Order("id DESC").
		Find(&subModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return r.toEntities(subModels)
}

func (r *SubscriptionRepositoryImpl) ListActive(ctx context.Context) ([]*subscription.Subscription, error) {
	var subModels []*models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("is_active = ?", true).
		Find(&subModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscriptions: %w", err)
	}
	return r.toEntities(subModels)
}

func (r *SubscriptionRepositoryImpl) ListDueForRenewal(ctx context.Context, cutoff time.Time) ([]*subscription.Subscription, error) {
	var subModels []*models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("is_active = ? AND renewal_date <= ?", true, cutoff).
		Find(&subModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list due subscriptions: %w", err)
	}
	return r.toEntities(subModels)
}

// Update persists the aggregate with optimistic locking on the version
// column. A stale version means a concurrent writer won; the caller sees
// an error and can retry from a fresh read.
func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, sub *subscription.Subscription) error {
	model := r.toModel(sub)
	result := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriptionModel{}).
		Where("id = ? AND version = ?", sub.ID(), sub.Version()-1).
		Updates(map[string]any{
			"plan_id":           model.PlanID,
			"status":            model.Status,
			"billing_cycle":     model.BillingCycle,
			"is_trial":          model.IsTrial,
			"trial_end_date":    model.TrialEndDate,
			"renewal_date":      model.RenewalDate,
			"cancelled_at":      model.CancelledAt,
			"payment_provider":  model.PaymentProvider,
			"payment_reference": model.PaymentReference,
			"is_active":         model.IsActive,
			"version":           model.Version,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "error", result.Error, "subscription_id", sub.ID())
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewConflictError(fmt.Sprintf("subscription %d was modified concurrently", sub.ID()))
	}
	return nil
}

// DeactivateActiveByOrganization retires the organization's current rows
// before a replacement is created, marking them EXPIRED with the active
// flag cleared.
func (r *SubscriptionRepositoryImpl) DeactivateActiveByOrganization(ctx context.Context, organizationID uint) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriptionModel{}).
		Where("organization_id = ? AND is_active = ?", organizationID, true).
		Updates(map[string]any{
			"is_active": false,
			"status":    string(subscription.StatusExpired),
			"version":   gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to deactivate subscriptions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *SubscriptionRepositoryImpl) toModel(sub *subscription.Subscription) *models.SubscriptionModel {
	return &models.SubscriptionModel{
		ID:               sub.ID(),
		SID:              sub.SID(),
		OrganizationID:   sub.OrganizationID(),
		PlanID:           sub.PlanID(),
		Status:           string(sub.Status()),
		BillingCycle:     string(sub.BillingCycle()),
		IsTrial:          sub.IsTrial(),
		TrialEndDate:     sub.TrialEndDate(),
		StartDate:        sub.StartDate(),
		RenewalDate:      sub.RenewalDate(),
		CancelledAt:      sub.CancelledAt(),
		PaymentProvider:  sub.PaymentProvider(),
		PaymentReference: sub.PaymentReference(),
		IsActive:         sub.IsActive(),
		Version:          sub.Version(),
		CreatedAt:        sub.CreatedAt(),
		UpdatedAt:        sub.UpdatedAt(),
	}
}

func (r *SubscriptionRepositoryImpl) toEntity(m *models.SubscriptionModel) (*subscription.Subscription, error) {
	return subscription.ReconstructSubscription(
		m.ID,
		m.SID,
		m.OrganizationID,
		m.PlanID,
		subscription.Status(m.Status),
		subscription.BillingCycle(m.BillingCycle),
		m.IsTrial,
		m.TrialEndDate,
		m.StartDate,
		m.RenewalDate,
		m.CancelledAt,
		m.PaymentProvider,
		m.PaymentReference,
		m.IsActive,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func (r *SubscriptionRepositoryImpl) toEntities(subModels []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	subs := make([]*subscription.Subscription, 0, len(subModels))
	for _, m := range subModels {
		sub, err := r.toEntity(m)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
