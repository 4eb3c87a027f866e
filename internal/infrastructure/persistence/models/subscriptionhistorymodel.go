package models

import (
	"time"

	"tessera/internal/shared/constants"
)

// SubscriptionHistoryModel is the append-only record of subscription
// lifecycle changes.
type SubscriptionHistoryModel struct {
	ID             uint   `gorm:"primarykey"`
	SubscriptionID uint   `gorm:"not null;index:idx_history_subscription"`
	OrganizationID uint   `gorm:"not null;index:idx_history_org"`
	ChangeType     string `gorm:"not null;size:20"`
	FromPlanID     uint
	ToPlanID       uint   `gorm:"not null"`
	FromStatus     string `gorm:"size:20"`
	ToStatus       string `gorm:"not null;size:20"`
	ActorUserID    uint
	Note           string `gorm:"size:500"`
	CreatedAt      time.Time
}

func (SubscriptionHistoryModel) TableName() string {
	return constants.TableSubscriptionHistories
}
