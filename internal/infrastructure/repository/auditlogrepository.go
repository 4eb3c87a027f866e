package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tessera/internal/domain/audit"
	"tessera/internal/infrastructure/persistence/models"
	"tessera/internal/shared/db"
	"tessera/internal/shared/logger"
)

type AuditLogRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewAuditLogRepository(db *gorm.DB, logger logger.Interface) audit.Repository {
	return &AuditLogRepositoryImpl{db: db, logger: logger}
}

func (r *AuditLogRepositoryImpl) Create(ctx context.Context, e *audit.Entry) error {
	var detail datatypes.JSON
	if e.Detail() != nil {
		raw, err := json.Marshal(e.Detail())
		if err != nil {
			return fmt.Errorf("failed to marshal audit detail: %w", err)
		}
		detail = datatypes.JSON(raw)
	}

	model := &models.AuditLogModel{
		ActorUserID:    e.ActorUserID(),
		OrganizationID: e.OrganizationID(),
		Action:         string(e.Action()),
		TargetType:     e.TargetType(),
		TargetID:       e.TargetID(),
		Detail:         detail,
		IPAddress:      e.IPAddress(),
		CreatedAt:      e.CreatedAt(),
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return e.SetID(model.ID)
}

func (r *AuditLogRepositoryImpl) List(ctx context.Context, filter audit.Filter) ([]*audit.Entry, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.AuditLogModel{})

	if filter.ActorUserID != 0 {
		query = query.Where("actor_user_id = ?", filter.ActorUserID)
	}
	if filter.OrganizationID != 0 {
		query = query.Where("organization_id = ?", filter.OrganizationID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", string(filter.Action))
	}
	if filter.TargetType != "" {
		query = query.Where("target_type = ?", filter.TargetType)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var entryModels []*models.AuditLogModel
	if err := query.Order("id DESC").Find(&entryModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}

	entries := make([]*audit.Entry, 0, len(entryModels))
	for _, m := range entryModels {
		var detail map[string]any
		if len(m.Detail) > 0 {
			if err := json.Unmarshal(m.Detail, &detail); err != nil {
				r.logger.Warnw("failed to unmarshal audit detail", "error", err, "audit_id", m.ID)
			}
		}
		entries = append(entries, audit.ReconstructEntry(
			m.ID,
			m.ActorUserID,
			m.OrganizationID,
			audit.Action(m.Action),
			m.TargetType,
			m.TargetID,
			detail,
			m.IPAddress,
			m.CreatedAt,
		))
	}
	return entries, total, nil
}
