package models

import (
	"time"

	"tessera/internal/shared/constants"
)

// MembershipModel links a user to an organization with a coarse role and
// an optional custom role attachment.
type MembershipModel struct {
	ID             uint   `gorm:"primarykey"`
	UserID         uint   `gorm:"not null;uniqueIndex:idx_user_org,priority:1"`
	OrganizationID uint   `gorm:"not null;uniqueIndex:idx_user_org,priority:2;index:idx_membership_org"`
	Role           string `gorm:"not null;size:20"`
	CustomRoleID   *uint  `gorm:"index:idx_membership_custom_role"`
	JoinedAt       time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (MembershipModel) TableName() string {
	return constants.TableMemberships
}
