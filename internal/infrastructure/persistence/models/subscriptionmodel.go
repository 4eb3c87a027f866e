package models

import (
	"time"

	"gorm.io/gorm"

	"tessera/internal/shared/constants"
)

// SubscriptionModel is the persistence model for subscriptions. IsActive
// marks the organization's single current row; superseded rows keep
// IsActive false and serve as history.
type SubscriptionModel struct {
	ID               uint   `gorm:"primarykey"`
	SID              string `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: sub_xxx"`
	OrganizationID   uint   `gorm:"not null;index:idx_sub_org"`
	PlanID           uint   `gorm:"not null;index:idx_sub_plan"`
	Status           string `gorm:"not null;size:20;index:idx_sub_status"`
	BillingCycle     string `gorm:"not null;size:10"`
	IsTrial          bool   `gorm:"not null;default:false"`
	TrialEndDate     *time.Time
	StartDate        time.Time `gorm:"not null"`
	RenewalDate      time.Time `gorm:"not null;index:idx_sub_renewal"`
	CancelledAt      *time.Time
	PaymentProvider  string `gorm:"size:50"`
	PaymentReference string `gorm:"size:100"`
	IsActive         bool   `gorm:"not null;default:true;index:idx_sub_active"`
	Version          int    `gorm:"not null;default:1"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}

func (s *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}
