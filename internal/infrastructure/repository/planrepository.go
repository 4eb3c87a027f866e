package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"tessera/internal/domain/subscription"
	"tessera/internal/infrastructure/persistence/models"
	"tessera/internal/shared/db"
	"tessera/internal/shared/logger"
)

type PlanRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPlanRepository(db *gorm.DB, logger logger.Interface) subscription.PlanRepository {
	return &PlanRepositoryImpl{db: db, logger: logger}
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, plan *subscription.Plan) error {
	model := r.toModel(plan)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create plan", "error", err, "name", plan.Name())
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return plan.SetID(model.ID)
}

func (r *PlanRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	var model models.PlanModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return r.toEntity(&model)
}

func (r *PlanRepositoryImpl) GetBySID(ctx context.Context, sid string) (*subscription.Plan, error) {
	var model models.PlanModel
	if err := db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan by SID: %w", err)
	}
	return r.toEntity(&model)
}

func (r *PlanRepositoryImpl) GetByName(ctx context.Context, name string) (*subscription.Plan, error) {
	var model models.PlanModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("name = ?", strings.TrimSpace(name)).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan by name: %w", err)
	}
	return r.toEntity(&model)
}

func (r *PlanRepositoryImpl) List(ctx context.Context, includeArchived bool) ([]*subscription.Plan, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.PlanModel{})
	if !includeArchived {
		query = query.Where("status = ?", string(subscription.PlanStatusActive))
	}

	var planModels []*models.PlanModel
	if err := query.Order("price ASC").Find(&planModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	plans := make([]*subscription.Plan, 0, len(planModels))
	for _, m := range planModels {
		plan, err := r.toEntity(m)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

func (r *PlanRepositoryImpl) Update(ctx context.Context, plan *subscription.Plan) error {
	err := db.GetTxFromContext(ctx, r.db).Model(&models.PlanModel{}).
		Where("id = ?", plan.ID()).
		Updates(map[string]any{
			"name":         plan.Name(),
			"description":  plan.Description(),
			"price":        plan.Price(),
			"yearly_price": plan.YearlyPrice(),
			"trial_days":   plan.TrialDays(),
			"status":       string(plan.Status()),
		}).Error
	if err != nil {
		r.logger.Errorw("failed to update plan", "error", err, "plan_id", plan.ID())
		return fmt.Errorf("failed to update plan: %w", err)
	}
	return nil
}

func (r *PlanRepositoryImpl) toModel(plan *subscription.Plan) *models.PlanModel {
	return &models.PlanModel{
		ID:          plan.ID(),
		SID:         plan.SID(),
		Name:        plan.Name(),
		Description: plan.Description(),
		Price:       plan.Price(),
		YearlyPrice: plan.YearlyPrice(),
		TrialDays:   plan.TrialDays(),
		Status:      string(plan.Status()),
		CreatedAt:   plan.CreatedAt(),
		UpdatedAt:   plan.UpdatedAt(),
	}
}

func (r *PlanRepositoryImpl) toEntity(m *models.PlanModel) (*subscription.Plan, error) {
	return subscription.ReconstructPlan(
		m.ID,
		m.SID,
		m.Name,
		m.Description,
		m.Price,
		m.YearlyPrice,
		m.TrialDays,
		subscription.PlanStatus(m.Status),
		m.CreatedAt,
		m.UpdatedAt,
	)
}
