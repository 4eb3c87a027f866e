package models

import (
	"time"

	"gorm.io/gorm"

	"tessera/internal/shared/constants"
)

// OrganizationModel is the persistence model for tenant organizations.
// OwnerUserID mirrors the OWNER membership for cheap owner lookups.
type OrganizationModel struct {
	ID          uint   `gorm:"primarykey"`
	SID         string `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: org_xxx"`
	Name        string `gorm:"not null;size:100;index:idx_org_name"`
	OwnerUserID uint   `gorm:"not null;index:idx_org_owner"`
	Status      string `gorm:"not null;size:20;default:active"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (OrganizationModel) TableName() string {
	return constants.TableOrganizations
}
