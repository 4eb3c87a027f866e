package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"tessera/internal/domain/authz"
	"tessera/internal/infrastructure/persistence/models"
	"tessera/internal/shared/db"
	"tessera/internal/shared/logger"
)

type AssignmentRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewAssignmentRepository(db *gorm.DB, logger logger.Interface) authz.AssignmentRepository {
	return &AssignmentRepositoryImpl{db: db, logger: logger}
}

func (r *AssignmentRepositoryImpl) Create(ctx context.Context, assignment *authz.RoleAssignment) error {
	model := &models.UserPlatformRoleModel{
		UserID:     assignment.UserID(),
		RoleID:     assignment.RoleID(),
		AssignedBy: assignment.AssignedBy(),
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create role assignment: %w", err)
	}
	return assignment.SetID(model.ID)
}

func (r *AssignmentRepositoryImpl) Exists(ctx context.Context, userID, roleID uint) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.UserPlatformRoleModel{}).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check role assignment: %w", err)
	}
	return count > 0, nil
}

func (r *AssignmentRepositoryImpl) Delete(ctx context.Context, userID, roleID uint) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&models.UserPlatformRoleModel{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete role assignment: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *AssignmentRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*authz.RoleAssignment, error) {
	return r.list(ctx, "user_id = ?", userID)
}

func (r *AssignmentRepositoryImpl) ListByRole(ctx context.Context, roleID uint) ([]*authz.RoleAssignment, error) {
	return r.list(ctx, "role_id = ?", roleID)
}

func (r *AssignmentRepositoryImpl) list(ctx context.Context, cond string, arg any) ([]*authz.RoleAssignment, error) {
	var assignmentModels []*models.UserPlatformRoleModel
	err := db.GetTxFromContext(ctx, r.db).Where(cond, arg).Find(&assignmentModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list role assignments: %w", err)
	}

	assignments := make([]*authz.RoleAssignment, 0, len(assignmentModels))
	for _, m := range assignmentModels {
		assignment, err := authz.ReconstructRoleAssignment(m.ID, m.UserID, m.RoleID, m.AssignedBy, m.CreatedAt)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}
