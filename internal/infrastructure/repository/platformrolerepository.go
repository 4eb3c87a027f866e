package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"tessera/internal/domain/authz"
	"tessera/internal/infrastructure/persistence/models"
	"tessera/internal/shared/db"
	apperrors "tessera/internal/shared/errors"
	"tessera/internal/shared/logger"
)

type PlatformRoleRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPlatformRoleRepository(db *gorm.DB, logger logger.Interface) authz.RoleRepository {
	return &PlatformRoleRepositoryImpl{db: db, logger: logger}
}

func (r *PlatformRoleRepositoryImpl) Create(ctx context.Context, role *authz.PlatformRole) error {
	model := r.toModel(role)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create platform role", "error", err, "name", role.Name())
		return fmt.Errorf("failed to create platform role: %w", err)
	}
	return role.SetID(model.ID)
}

func (r *PlatformRoleRepositoryImpl) GetByID(ctx context.Context, id uint) (*authz.PlatformRole, error) {
	var model models.PlatformRoleModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get platform role: %w", err)
	}
	return r.toEntity(&model)
}

func (r *PlatformRoleRepositoryImpl) GetByName(ctx context.Context, name string) (*authz.PlatformRole, error) {
	var model models.PlatformRoleModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("normalized_name = ?", strings.ToLower(name)).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get platform role by name: %w", err)
	}
	return r.toEntity(&model)
}

func (r *PlatformRoleRepositoryImpl) List(ctx context.Context, filter authz.RoleFilter) ([]*authz.PlatformRole, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.PlatformRoleModel{})

	if filter.Name != "" {
		query = query.Where("name LIKE ?", "%"+filter.Name+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count platform roles: %w", err)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var roleModels []*models.PlatformRoleModel
	if err := query.Order("id ASC").Find(&roleModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list platform roles: %w", err)
	}

	roles := make([]*authz.PlatformRole, 0, len(roleModels))
	for _, m := range roleModels {
		role, err := r.toEntity(m)
		if err != nil {
			return nil, 0, err
		}
		roles = append(roles, role)
	}
	return roles, total, nil
}

func (r *PlatformRoleRepositoryImpl) Update(ctx context.Context, role *authz.PlatformRole) error {
	err := db.GetTxFromContext(ctx, r.db).Model(&models.PlatformRoleModel{}).
		Where("id = ?", role.ID()).
		Updates(map[string]any{
			"description": role.Description(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update platform role: %w", err)
	}
	return nil
}

// Delete removes the role, its permission associations, and every user
// assignment referencing it in one transaction.
func (r *PlatformRoleRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&models.PlatformRolePermissionModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete role permissions: %w", err)
		}
		if err := tx.Where("role_id = ?", id).Delete(&models.UserPlatformRoleModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete role assignments: %w", err)
		}
		if err := tx.Delete(&models.PlatformRoleModel{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete platform role: %w", err)
		}
		return nil
	})
}

// ReplacePermissions swaps the role's full permission set. Duplicate-key
// errors on insert are swallowed: they mean the permission is already
// granted, which is the desired end state.
func (r *PlatformRoleRepositoryImpl) ReplacePermissions(ctx context.Context, roleID uint, permissions []authz.PermissionID) error {
	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).Delete(&models.PlatformRolePermissionModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear role permissions: %w", err)
		}
		for _, p := range permissions {
			model := &models.PlatformRolePermissionModel{RoleID: roleID, PermissionID: string(p)}
			if err := tx.Create(model).Error; err != nil {
				if apperrors.IsDuplicateError(err) {
					continue
				}
				return fmt.Errorf("failed to grant permission %s: %w", p, err)
			}
		}
		return nil
	})
}

func (r *PlatformRoleRepositoryImpl) GetPermissions(ctx context.Context, roleID uint) ([]authz.PermissionID, error) {
	return r.permissionsWhere(ctx, "role_id = ?", roleID)
}

func (r *PlatformRoleRepositoryImpl) GetPermissionsForRoles(ctx context.Context, roleIDs []uint) ([]authz.PermissionID, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}
	return r.permissionsWhere(ctx, "role_id IN ?", roleIDs)
}

func (r *PlatformRoleRepositoryImpl) permissionsWhere(ctx context.Context, cond string, arg any) ([]authz.PermissionID, error) {
	var rows []string
	err := db.GetTxFromContext(ctx, r.db).Model(&models.PlatformRolePermissionModel{}).
		Where(cond, arg).
		Distinct("permission_id").
		Pluck("permission_id", &rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get role permissions: %w", err)
	}

	permissions := make([]authz.PermissionID, 0, len(rows))
	for _, p := range rows {
		permissions = append(permissions, authz.PermissionID(p))
	}
	return permissions, nil
}

func (r *PlatformRoleRepositoryImpl) toModel(role *authz.PlatformRole) *models.PlatformRoleModel {
	return &models.PlatformRoleModel{
		ID:             role.ID(),
		Name:           role.Name(),
		NormalizedName: role.NormalizedName(),
		Description:    role.Description(),
		IsSystem:       role.IsSystem(),
		CreatedAt:      role.CreatedAt(),
		UpdatedAt:      role.UpdatedAt(),
	}
}

func (r *PlatformRoleRepositoryImpl) toEntity(m *models.PlatformRoleModel) (*authz.PlatformRole, error) {
	return authz.ReconstructPlatformRole(
		m.ID,
		m.Name,
		m.Description,
		m.IsSystem,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
