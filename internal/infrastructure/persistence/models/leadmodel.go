package models

import (
	"time"

	"gorm.io/gorm"

	"tessera/internal/shared/constants"
)

// LeadModel is the persistence model for CRM leads. Notes holds raw
// markdown.
type LeadModel struct {
	ID             uint   `gorm:"primarykey"`
	SID            string `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: lead_xxx"`
	OrganizationID uint   `gorm:"not null;index:idx_lead_org"`
	Name           string `gorm:"not null;size:200"`
	Email          string `gorm:"size:255"`
	Phone          string `gorm:"size:50"`
	Company        string `gorm:"size:200"`
	Status         string `gorm:"not null;size:20;default:NEW;index:idx_lead_status"`
	Notes          string `gorm:"type:text"`
	AssigneeUserID uint   `gorm:"index:idx_lead_assignee"`
	CreatedBy      uint   `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (LeadModel) TableName() string {
	return constants.TableLeads
}
