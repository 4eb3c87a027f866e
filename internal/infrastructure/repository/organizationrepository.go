package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"tessera/internal/domain/organization"
	"tessera/internal/infrastructure/persistence/models"
	"tessera/internal/shared/constants"
	"tessera/internal/shared/db"
	"tessera/internal/shared/logger"
)

type OrganizationRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewOrganizationRepository(db *gorm.DB, logger logger.Interface) organization.Repository {
	return &OrganizationRepositoryImpl{db: db, logger: logger}
}

func (r *OrganizationRepositoryImpl) Create(ctx context.Context, org *organization.Organization) error {
	model := r.toModel(org)
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		r.logger.Errorw("failed to create organization", "error", err, "name", org.Name())
		return fmt.Errorf("failed to create organization: %w", err)
	}
	return org.SetID(model.ID)
}

func (r *OrganizationRepositoryImpl) GetByID(ctx context.Context, id uint) (*organization.Organization, error) {
	var model models.OrganizationModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return r.toEntity(&model)
}

func (r *OrganizationRepositoryImpl) GetBySID(ctx context.Context, sid string) (*organization.Organization, error) {
	var model models.OrganizationModel
	if err := db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get organization by SID: %w", err)
	}
	return r.toEntity(&model)
}

func (r *OrganizationRepositoryImpl) List(ctx context.Context, filter organization.Filter) ([]*organization.Organization, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.OrganizationModel{})

	if filter.Name != "" {
		query = query.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count organizations: %w", err)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var orgModels []*models.OrganizationModel
	if err := query.Order("id DESC").Find(&orgModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list organizations: %w", err)
	}

	orgs := make([]*organization.Organization, 0, len(orgModels))
	for _, m := range orgModels {
		org, err := r.toEntity(m)
		if err != nil {
			return nil, 0, err
		}
		orgs = append(orgs, org)
	}
	return orgs, total, nil
}

func (r *OrganizationRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*organization.Organization, error) {
	var orgModels []*models.OrganizationModel
	err := db.GetTxFromContext(ctx, r.db).
		Joins(fmt.Sprintf("JOIN %s ON %s.organization_id = %s.id",
			constants.TableMemberships, constants.TableMemberships, constants.TableOrganizations)).
		Where(constants.TableMemberships+".user_id = ?", userID).
		Find(&orgModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations for user: %w", err)
	}

	orgs := make([]*organization.Organization, 0, len(orgModels))
	for _, m := range orgModels {
		org, err := r.toEntity(m)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, nil
}

func (r *OrganizationRepositoryImpl) Update(ctx context.Context, org *organization.Organization) error {
	err := db.GetTxFromContext(ctx, r.db).Model(&models.OrganizationModel{}).Where("id = ?", org.ID()).Updates(map[string]any{
		"name":          org.Name(),
		"owner_user_id": org.OwnerUserID(),
		"status":        string(org.Status()),
	}).Error
	if err != nil {
		r.logger.Errorw("failed to update organization", "error", err, "organization_id", org.ID())
		return fmt.Errorf("failed to update organization: %w", err)
	}
	return nil
}

func (r *OrganizationRepositoryImpl) Delete(ctx context.Context, id uint) error {
	if err := db.GetTxFromContext(ctx, r.db).Delete(&models.OrganizationModel{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}
	return nil
}

func (r *OrganizationRepositoryImpl) toModel(org *organization.Organization) *models.OrganizationModel {
	return &models.OrganizationModel{
		ID:          org.ID(),
		SID:         org.SID(),
		Name:        org.Name(),
		OwnerUserID: org.OwnerUserID(),
		Status:      string(org.Status()),
		CreatedAt:   org.CreatedAt(),
		UpdatedAt:   org.UpdatedAt(),
	}
}

func (r *OrganizationRepositoryImpl) toEntity(m *models.OrganizationModel) (*organization.Organization, error) {
	return organization.ReconstructOrganization(
		m.ID,
		m.SID,
		m.Name,
		m.OwnerUserID,
		organization.Status(m.Status),
		m.CreatedAt,
		m.UpdatedAt,
	)
}
