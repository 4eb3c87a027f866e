package models

import (
	"time"

	"gorm.io/datatypes"

	"tessera/internal/shared/constants"
)

// AuditLogModel is the append-only audit trail. Rows are never updated or
// deleted.
type AuditLogModel struct {
	ID             uint   `gorm:"primarykey"`
	ActorUserID    uint   `gorm:"not null;index:idx_audit_actor"`
	OrganizationID uint   `gorm:"index:idx_audit_org"`
	Action         string `gorm:"not null;size:50;index:idx_audit_action"`
	TargetType     string `gorm:"size:30"`
	TargetID       string `gorm:"size:50"`
	Detail         datatypes.JSON
	IPAddress      string    `gorm:"size:45"`
	CreatedAt      time.Time `gorm:"index:idx_audit_created"`
}

func (AuditLogModel) TableName() string {
	return constants.TableAuditLogs
}
