package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"tessera/internal/domain/subscription"
	"tessera/internal/infrastructure/persistence/models"
	"tessera/internal/shared/db"
	"tessera/internal/shared/logger"
)

type SubscriptionHistoryRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSubscriptionHistoryRepository(db *gorm.DB, logger logger.Interface) subscription.HistoryRepository {
	return &SubscriptionHistoryRepositoryImpl{db: db, logger: logger}
}

func (r *SubscriptionHistoryRepositoryImpl) Create(ctx context.Context, h *subscription.History) error {
	model := &models.SubscriptionHistoryModel{
		SubscriptionID: h.SubscriptionID(),
		OrganizationID: h.OrganizationID(),
		ChangeType:     string(h.ChangeType()),
		FromPlanID:     h.FromPlanID(),
		ToPlanID:       h.ToPlanID(),
		FromStatus:     string(h.FromStatus()),
		ToStatus:       string(h.ToStatus()),
		ActorUserID:    h.ActorUserID(),
		Note:           h.Note(),
		CreatedAt:      h.CreatedAt(),
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription history", "error", err, "subscription_id", h.SubscriptionID())
		return fmt.Errorf("failed to create subscription history: %w", err)
	}
	return h.SetID(model.ID)
}

func (r *SubscriptionHistoryRepositoryImpl) ListBySubscription(ctx context.Context, subscriptionID uint) ([]*subscription.History, error) {
	var historyModels []*models.SubscriptionHistoryModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("subscription_id = ?", subscriptionID).
		Order("id DESC").
		Find(&historyModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscription history: %w", err)
	}
	return r.toEntities(historyModels), nil
}

func (r *SubscriptionHistoryRepositoryImpl) ListByOrganization(ctx context.Context, organizationID uint, page, pageSize int) ([]*subscription.History, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriptionHistoryModel{}).
		Where("organization_id = ?", organizationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscription history: %w", err)
	}

	if page > 0 && pageSize > 0 {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}

	var historyModels []*models.SubscriptionHistoryModel
	if err := query.Order("id DESC").Find(&historyModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subscription history: %w", err)
	}
	return r.toEntities(historyModels), total, nil
}

func (r *SubscriptionHistoryRepositoryImpl) toEntities(historyModels []*models.SubscriptionHistoryModel) []*subscription.History {
	records := make([]*subscription.History, 0, len(historyModels))
	for _, m := range historyModels {
		records = append(records, subscription.ReconstructHistory(
			m.ID,
			m.SubscriptionID,
			m.OrganizationID,
			subscription.ChangeType(m.ChangeType),
			m.FromPlanID,
			m.ToPlanID,
			subscription.Status(m.FromStatus),
			subscription.Status(m.ToStatus),
			m.ActorUserID,
			m.Note,
			m.CreatedAt,
		))
	}
	return records
}
