package models

import (
	"time"

	"gorm.io/gorm"

	"tessera/internal/shared/constants"
)

// FinanceEntryModel is the persistence model for income and expense
// records. Amount is in cents and always positive; Type carries the sign.
type FinanceEntryModel struct {
	ID             uint      `gorm:"primarykey"`
	SID            string    `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: fin_xxx"`
	OrganizationID uint      `gorm:"not null;index:idx_finance_org"`
	Type           string    `gorm:"not null;size:10"`
	Amount         int64     `gorm:"not null"`
	Currency       string    `gorm:"not null;size:3"`
	Category       string    `gorm:"not null;size:50;index:idx_finance_category"`
	Description    string    `gorm:"size:500"`
	OccurredAt     time.Time `gorm:"not null;index:idx_finance_occurred"`
	CreatedBy      uint      `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (FinanceEntryModel) TableName() string {
	return constants.TableFinanceEntries
}
