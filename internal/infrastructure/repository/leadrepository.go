package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"tessera/internal/domain/crm"
	"tessera/internal/infrastructure/persistence/models"
	"tessera/internal/shared/db"
	"tessera/internal/shared/logger"
)

type LeadRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewLeadRepository(db *gorm.DB, logger logger.Interface) crm.Repository {
	return &LeadRepositoryImpl{db: db, logger: logger}
}

func (r *LeadRepositoryImpl) Create(ctx context.Context, lead *crm.Lead) error {
	model := r.toModel(lead)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create lead", "error", err, "organization_id", lead.OrganizationID())
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return lead.SetID(model.ID)
}

func (r *LeadRepositoryImpl) GetByID(ctx context.Context, id uint) (*crm.Lead, error) {
	var model models.LeadModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return r.toEntity(&model)
}

func (r *LeadRepositoryImpl) GetBySID(ctx context.Context, sid string) (*crm.Lead, error) {
	var model models.LeadModel
	if err := db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get lead by SID: %w", err)
	}
	return r.toEntity(&model)
}

func (r *LeadRepositoryImpl) List(ctx context.Context, filter crm.Filter) ([]*crm.Lead, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.LeadModel{})

	if filter.OrganizationID != 0 {
		query = query.Where("organization_id = ?", filter.OrganizationID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.AssigneeUserID != 0 {
		query = query.Where("assignee_user_id = ?", filter.AssigneeUserID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR company LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var leadModels []*models.LeadModel
	if err := query.Order("id DESC").Find(&leadModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}

	leads := make([]*crm.Lead, 0, len(leadModels))
	for _, m := range leadModels {
		lead, err := r.toEntity(m)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	return leads, total, nil
}

func (r *LeadRepositoryImpl) Update(ctx context.Context, lead *crm.Lead) error {
	err := db.GetTxFromContext(ctx, r.db).Model(&models.LeadModel{}).
		Where("id = ?", lead.ID()).
		Updates(map[string]any{
			"name":             lead.Name(),
			"email":            lead.Email(),
			"phone":            lead.Phone(),
			"company":          lead.Company(),
			"status":           string(lead.Status()),
			"notes":            lead.Notes(),
			"assignee_user_id": lead.AssigneeUserID(),
		}).Error
	if err != nil {
		r.logger.Errorw("failed to update lead", "error", err, "lead_id", lead.ID())
		return fmt.Errorf("failed to update lead: %w", err)
	}
	return nil
}

func (r *LeadRepositoryImpl) Delete(ctx context.Context, id uint) error {
	if err := db.GetTxFromContext(ctx, r.db).Delete(&models.LeadModel{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	return nil
}

func (r *LeadRepositoryImpl) toModel(lead *crm.Lead) *models.LeadModel {
	return &models.LeadModel{
		ID:             lead.ID(),
		SID:            lead.SID(),
		OrganizationID: lead.OrganizationID(),
		Name:           lead.Name(),
		Email:          lead.Email(),
		Phone:          lead.Phone(),
		Company:        lead.Company(),
		Status:         string(lead.Status()),
		Notes:          lead.Notes(),
		AssigneeUserID: lead.AssigneeUserID(),
		CreatedBy:      lead.CreatedBy(),
		CreatedAt:      lead.CreatedAt(),
		UpdatedAt:      lead.UpdatedAt(),
	}
}

func (r *LeadRepositoryImpl) toEntity(m *models.LeadModel) (*crm.Lead, error) {
	return crm.ReconstructLead(
		m.ID,
		m.SID,
		m.OrganizationID,
		m.Name,
		m.Email,
		m.Phone,
		m.Company,
		crm.LeadStatus(m.Status),
		m.Notes,
		m.AssigneeUserID,
		m.CreatedBy,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
