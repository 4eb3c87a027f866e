package models

import (
	"time"

	"gorm.io/gorm"

	"tessera/internal/shared/constants"
)

// UserModel is the persistence model for platform accounts.
type UserModel struct {
	ID           uint   `gorm:"primarykey"`
	Email        string `gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string `gorm:"not null;size:255"`
	DisplayName  string `gorm:"not null;size:100"`
	GlobalRole   string `gorm:"not null;size:20;default:USER;index:idx_global_role"`
	Status       string `gorm:"not null;size:20;default:active"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (UserModel) TableName() string {
	return constants.TableUsers
}
