package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tessera/internal/domain/organization"
	"tessera/internal/infrastructure/persistence/models"
	"tessera/internal/shared/db"
	"tessera/internal/shared/logger"
)

type OrganizationRoleRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewOrganizationRoleRepository(db *gorm.DB, logger logger.Interface) organization.CustomRoleRepository {
	return &OrganizationRoleRepositoryImpl{db: db, logger: logger}
}

func (r *OrganizationRoleRepositoryImpl) Create(ctx context.Context, role *organization.CustomRole) error {
	model, err := r.toModel(role)
	if err != nil {
		return err
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create custom role", "error", err,
			"organization_id", role.OrganizationID(), "name", role.Name())
		return fmt.Errorf("failed to create custom role: %w", err)
	}
	return role.SetID(model.ID)
}

func (r *OrganizationRoleRepositoryImpl) GetByID(ctx context.Context, id uint) (*organization.CustomRole, error) {
	var model models.OrganizationRoleModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get custom role: %w", err)
	}
	return r.toEntity(&model)
}

func (r *OrganizationRoleRepositoryImpl) GetByOrgAndName(ctx context.Context, organizationID uint, name string) (*organization.CustomRole, error) {
	var model models.OrganizationRoleModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("organization_id = ? AND name = ?", organizationID, name).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get custom role by name: %w", err)
	}
	return r.toEntity(&model)
}

func (r *OrganizationRoleRepositoryImpl) ListByOrganization(ctx context.Context, organizationID uint) ([]*organization.CustomRole, error) {
	var roleModels []*models.OrganizationRoleModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("organization_id = ?", organizationID).
		Order("name ASC").
		Find(&roleModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list custom roles: %w", err)
	}

	roles := make([]*organization.CustomRole, 0, len(roleModels))
	for _, m := range roleModels {
		role, err := r.toEntity(m)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func (r *OrganizationRoleRepositoryImpl) Update(ctx context.Context, role *organization.CustomRole) error {
	grants, err := json.Marshal(role.Grants())
	if err != nil {
		return fmt.Errorf("failed to marshal grants: %w", err)
	}

	err = db.GetTxFromContext(ctx, r.db).Model(&models.OrganizationRoleModel{}).
		Where("id = ?", role.ID()).
		Updates(map[string]any{
			"name":        role.Name(),
			"description": role.Description(),
			"grants":      datatypes.JSON(grants),
		}).Error
	if err != nil {
		r.logger.Errorw("failed to update custom role", "error", err, "role_id", role.ID())
		return fmt.Errorf("failed to update custom role: %w", err)
	}
	return nil
}

func (r *OrganizationRoleRepositoryImpl) Delete(ctx context.Context, id uint) error {
	if err := db.GetTxFromContext(ctx, r.db).Delete(&models.OrganizationRoleModel{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete custom role: %w", err)
	}
	return nil
}

func (r *OrganizationRoleRepositoryImpl) toModel(role *organization.CustomRole) (*models.OrganizationRoleModel, error) {
	grants, err := json.Marshal(role.Grants())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal grants: %w", err)
	}

	return &models.OrganizationRoleModel{
		ID:             role.ID(),
		OrganizationID: role.OrganizationID(),
		Name:           role.Name(),
		Description:    role.Description(),
		Grants:         datatypes.JSON(grants),
		IsSystem:       role.IsSystem(),
		CreatedAt:      role.CreatedAt(),
		UpdatedAt:      role.UpdatedAt(),
	}, nil
}

func (r *OrganizationRoleRepositoryImpl) toEntity(m *models.OrganizationRoleModel) (*organization.CustomRole, error) {
	var grants []organization.ModuleGrant
	if len(m.Grants) > 0 {
		if err := json.Unmarshal(m.Grants, &grants); err != nil {
			return nil, fmt.Errorf("failed to unmarshal grants: %w", err)
		}
	}

	return organization.ReconstructCustomRole(
		m.ID,
		m.OrganizationID,
		m.Name,
		m.Description,
		grants,
		m.IsSystem,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
