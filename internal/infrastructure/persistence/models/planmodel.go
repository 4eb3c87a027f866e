package models

import (
	"time"

	"tessera/internal/shared/constants"
)

// PlanModel is the persistence model for subscription plans. Prices are in
// cents.
type PlanModel struct {
	ID          uint   `gorm:"primarykey"`
	SID         string `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: plan_xxx"`
	Name        string `gorm:"uniqueIndex;not null;size:50"`
	Description string `gorm:"size:500"`
	Price       int64  `gorm:"not null;default:0"`
	YearlyPrice int64  `gorm:"not null;default:0"`
	TrialDays   int    `gorm:"not null;default:0"`
	Status      string `gorm:"not null;size:20;default:active"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PlanModel) TableName() string {
	return constants.TablePlans
}
