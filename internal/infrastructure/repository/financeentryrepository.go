package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"tessera/internal/domain/finance"
	"tessera/internal/infrastructure/persistence/models"
	"tessera/internal/shared/db"
	"tessera/internal/shared/logger"
)

type FinanceEntryRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewFinanceEntryRepository(db *gorm.DB, logger logger.Interface) finance.Repository {
	return &FinanceEntryRepositoryImpl{db: db, logger: logger}
}

func (r *FinanceEntryRepositoryImpl) Create(ctx context.Context, e *finance.Entry) error {
	model := r.toModel(e)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create finance entry", "error", err, "organization_id", e.OrganizationID())
		return fmt.Errorf("failed to create finance entry: %w", err)
	}
	return e.SetID(model.ID)
}

func (r *FinanceEntryRepositoryImpl) GetByID(ctx context.Context, id uint) (*finance.Entry, error) {
	var model models.FinanceEntryModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get finance entry: %w", err)
	}
	return r.toEntity(&model)
}

func (r *FinanceEntryRepositoryImpl) GetBySID(ctx context.Context, sid string) (*finance.Entry, error) {
	var model models.FinanceEntryModel
	if err := db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get finance entry by SID: %w", err)
	}
	return r.toEntity(&model)
}

func (r *FinanceEntryRepositoryImpl) List(ctx context.Context, filter finance.Filter) ([]*finance.Entry, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.FinanceEntryModel{})

	if filter.OrganizationID != 0 {
		query = query.Where("organization_id = ?", filter.OrganizationID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.From != nil {
		query = query.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("occurred_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count finance entries: %w", err)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var entryModels []*models.FinanceEntryModel
	if err := query.Order("occurred_at DESC").Find(&entryModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list finance entries: %w", err)
	}

	entries := make([]*finance.Entry, 0, len(entryModels))
	for _, m := range entryModels {
		entry, err := r.toEntity(m)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	return entries, total, nil
}

func (r *FinanceEntryRepositoryImpl) Update(ctx context.Context, e *finance.Entry) error {
	err := db.GetTxFromContext(ctx, r.db).Model(&models.FinanceEntryModel{}).
		Where("id = ?", e.ID()).
		Updates(map[string]any{
			"type":        string(e.Type()),
			"amount":      e.Amount(),
			"category":    e.Category(),
			"description": e.Description(),
			"occurred_at": e.OccurredAt(),
		}).Error
	if err != nil {
		r.logger.Errorw("failed to update finance entry", "error", err, "entry_id", e.ID())
		return fmt.Errorf("failed to update finance entry: %w", err)
	}
	return nil
}

func (r *FinanceEntryRepositoryImpl) Delete(ctx context.Context, id uint) error {
	if err := db.GetTxFromContext(ctx, r.db).Delete(&models.FinanceEntryModel{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete finance entry: %w", err)
	}
	return nil
}

// MonthlySummaries aggregates in Go rather than SQL so the grouping
// behaves identically on MySQL and the SQLite test database.
func (r *FinanceEntryRepositoryImpl) MonthlySummaries(ctx context.Context, organizationID uint, from, to time.Time) ([]finance.MonthlySummary, error) {
	var entryModels []*models.FinanceEntryModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("organization_id = ? AND occurred_at >= ? AND occurred_at <= ?", organizationID, from, to).
		Find(&entryModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load finance entries: %w", err)
	}

	type monthKey struct {
		year  int
		month time.Month
	}
	buckets := make(map[monthKey]*finance.MonthlySummary)
	for _, m := range entryModels {
		key := monthKey{m.OccurredAt.Year(), m.OccurredAt.Month()}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &finance.MonthlySummary{Year: key.year, Month: key.month}
			buckets[key] = bucket
		}
		if m.Type == string(finance.EntryTypeIncome) {
			bucket.Income += m.Amount
		} else {
			bucket.Expenses += m.Amount
		}
	}

	summaries := make([]finance.MonthlySummary, 0, len(buckets))
	for _, bucket := range buckets {
		bucket.Net = bucket.Income - bucket.Expenses
		summaries = append(summaries, *bucket)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Year != summaries[j].Year {
			return summaries[i].Year > summaries[j].Year
		}
		return summaries[i].Month > summaries[j].Month
	})
	return summaries, nil
}

func (r *FinanceEntryRepositoryImpl) toModel(e *finance.Entry) *models.FinanceEntryModel {
	return &models.FinanceEntryModel{
		ID:             e.ID(),
		SID:            e.SID(),
		OrganizationID: e.OrganizationID(),
		Type:           string(e.Type()),
		Amount:         e.Amount(),
		Currency:       e.Currency(),
		Category:       e.Category(),
		Description:    e.Description(),
		OccurredAt:     e.OccurredAt(),
		CreatedBy:      e.CreatedBy(),
		CreatedAt:      e.CreatedAt(),
		UpdatedAt:      e.UpdatedAt(),
	}
}

func (r *FinanceEntryRepositoryImpl) toEntity(m *models.FinanceEntryModel) (*finance.Entry, error) {
	return finance.ReconstructEntry(
		m.ID,
		m.SID,
		m.OrganizationID,
		finance.EntryType(m.Type),
		m.Amount,
		m.Currency,
		m.Category,
		m.Description,
		m.OccurredAt,
		m.CreatedBy,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
