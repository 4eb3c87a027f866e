package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"tessera/internal/domain/organization"
	"tessera/internal/infrastructure/persistence/models"
	"tessera/internal/shared/db"
	"tessera/internal/shared/logger"
)

type MembershipRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewMembershipRepository(db *gorm.DB, logger logger.Interface) organization.MembershipRepository {
	return &MembershipRepositoryImpl{db: db, logger: logger}
}

func (r *MembershipRepositoryImpl) Create(ctx context.Context, membership *organization.Membership) error {
	model := r.toModel(membership)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create membership", "error", err,
			"user_id", membership.UserID(), "organization_id", membership.OrganizationID())
		return fmt.Errorf("failed to create membership: %w", err)
	}
	return membership.SetID(model.ID)
}

func (r *MembershipRepositoryImpl) GetByID(ctx context.Context, id uint) (*organization.Membership, error) {
	var model models.MembershipModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return r.toEntity(&model)
}

func (r *MembershipRepositoryImpl) GetByUserAndOrg(ctx context.Context, userID, organizationID uint) (*organization.Membership, error) {
	var model models.MembershipModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND organization_id = ?", userID, organizationID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return r.toEntity(&model)
}

func (r *MembershipRepositoryImpl) ListByOrganization(ctx context.Context, organizationID uint) ([]*organization.Membership, error) {
	var membershipModels []*models.MembershipModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("organization_id = ?", organizationID).
		Order("joined_at ASC").
		Find(&membershipModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	memberships := make([]*organization.Membership, 0, len(membershipModels))
	for _, m := range membershipModels {
		membership, err := r.toEntity(m)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, membership)
	}
	return memberships, nil
}

func (r *MembershipRepositoryImpl) CountByOrganization(ctx context.Context, organizationID uint) (int64, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.MembershipModel{}).
		Where("organization_id = ?", organizationID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count memberships: %w", err)
	}
	return count, nil
}

func (r *MembershipRepositoryImpl) Update(ctx context.Context, membership *organization.Membership) error {
	err := db.GetTxFromContext(ctx, r.db).Model(&models.MembershipModel{}).
		Where("id = ?", membership.ID()).
		Updates(map[string]any{
			"role":           string(membership.Role()),
			"custom_role_id": membership.CustomRoleID(),
		}).Error
	if err != nil {
		r.logger.Errorw("failed to update membership", "error", err, "membership_id", membership.ID())
		return fmt.Errorf("failed to update membership: %w", err)
	}
	return nil
}

func (r *MembershipRepositoryImpl) Delete(ctx context.Context, id uint) error {
	if err := db.GetTxFromContext(ctx, r.db).Delete(&models.MembershipModel{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}
	return nil
}

func (r *MembershipRepositoryImpl) toModel(membership *organization.Membership) *models.MembershipModel {
	return &models.MembershipModel{
		ID:             membership.ID(),
		UserID:         membership.UserID(),
		OrganizationID: membership.OrganizationID(),
		Role:           string(membership.Role()),
		CustomRoleID:   membership.CustomRoleID(),
		JoinedAt:       membership.JoinedAt(),
	}
}

func (r *MembershipRepositoryImpl) toEntity(m *models.MembershipModel) (*organization.Membership, error) {
	return organization.ReconstructMembership(
		m.ID,
		m.UserID,
		m.OrganizationID,
		organization.Role(m.Role),
		m.CustomRoleID,
		m.JoinedAt,
		m.UpdatedAt,
	)
}
