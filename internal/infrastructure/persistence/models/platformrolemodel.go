package models

import (
	"time"

	"tessera/internal/shared/constants"
)

// PlatformRoleModel is the persistence model for platform roles. Name
// uniqueness is case-insensitive; NormalizedName carries the lowercase key.
type PlatformRoleModel struct {
	ID             uint   `gorm:"primarykey"`
	Name           string `gorm:"not null;size:50"`
	NormalizedName string `gorm:"uniqueIndex;not null;size:50"`
	Description    string `gorm:"size:255"`
	IsSystem       bool   `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (PlatformRoleModel) TableName() string {
	return constants.TablePlatformRoles
}

// PlatformRolePermissionModel associates a platform role with one catalog
// permission ID.
type PlatformRolePermissionModel struct {
	ID           uint   `gorm:"primarykey"`
	RoleID       uint   `gorm:"not null;uniqueIndex:idx_role_permission,priority:1"`
	PermissionID string `gorm:"not null;size:50;uniqueIndex:idx_role_permission,priority:2"`
	CreatedAt    time.Time
}

func (PlatformRolePermissionModel) TableName() string {
	return constants.TablePlatformRolePermissions
}

// UserPlatformRoleModel assigns a platform role to a user.
type UserPlatformRoleModel struct {
	ID         uint `gorm:"primarykey"`
	UserID     uint `gorm:"not null;uniqueIndex:idx_user_platform_role,priority:1"`
	RoleID     uint `gorm:"not null;uniqueIndex:idx_user_platform_role,priority:2;index:idx_platform_role"`
	AssignedBy uint `gorm:"not null"`
	CreatedAt  time.Time
}

func (UserPlatformRoleModel) TableName() string {
	return constants.TableUserPlatformRoles
}
