package models

import (
	"time"

	"gorm.io/datatypes"

	"tessera/internal/shared/constants"
)

// OrganizationRoleModel is the persistence model for organization custom
// roles. Grants holds the JSON-encoded module grant list.
type OrganizationRoleModel struct {
	ID             uint   `gorm:"primarykey"`
	OrganizationID uint   `gorm:"not null;uniqueIndex:idx_org_role_name,priority:1"`
	Name           string `gorm:"not null;size:50;uniqueIndex:idx_org_role_name,priority:2"`
	Description    string `gorm:"size:255"`
	Grants         datatypes.JSON
	IsSystem       bool `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (OrganizationRoleModel) TableName() string {
	return constants.TableOrganizationRoles
}
