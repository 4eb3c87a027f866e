package finance

import (
	"context"
	"fmt"
	"time"

	auditapp "tessera/internal/application/audit"
	domainaudit "tessera/internal/domain/audit"
	"tessera/internal/domain/finance"
	apperrors "tessera/internal/shared/errors"
	"tessera/internal/shared/id"
	"tessera/internal/shared/logger"
)

type Service struct {
	entryRepo finance.Repository
	auditSvc  *auditapp.Service
	logger    logger.Interface
}

func NewService(entryRepo finance.Repository, auditSvc *auditapp.Service, logger logger.Interface) *Service {
	return &Service{entryRepo: entryRepo, auditSvc: auditSvc, logger: logger}
}

type EntryDTO struct {
	ID          uint      `json:"id"`
	SID         string    `json:"sid"`
	Type        string    `json:"type"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	CreatedBy   uint      `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type MonthlySummaryDTO struct {
	Year     int   `json:"year"`
	Month    int   `json:"month"`
	Income   int64 `json:"income"`
	Expenses int64 `json:"expenses"`
	Net      int64 `json:"net"`
}

func toEntryDTO(e *finance.Entry) *EntryDTO {
	return &EntryDTO{
		ID:          e.ID(),
		SID:         e.SID(),
		Type:        string(e.Type()),
		Amount:      e.Amount(),
		Currency:    e.Currency(),
		Category:    e.Category(),
		Description: e.Description(),
		OccurredAt:  e.OccurredAt(),
		CreatedBy:   e.CreatedBy(),
		CreatedAt:   e.CreatedAt(),
	}
}

type CreateEntryCommand struct {
	OrganizationID uint
	Type           string
	Amount         int64
	Currency       string
	Category       string
	Description    string
	OccurredAt     time.Time
	ActorUserID    uint
}

func (s *Service) CreateEntry(ctx context.Context, cmd CreateEntryCommand) (*EntryDTO, error) {
	sid, err := id.GenerateWithPrefix(id.PrefixFinanceEntry, id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate entry SID: %w", err)
	}

	entry, err := finance.NewEntry(sid, cmd.OrganizationID, finance.EntryType(cmd.Type), cmd.Amount, cmd.Currency, cmd.Category, cmd.Description, cmd.OccurredAt, cmd.ActorUserID)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		s.logger.Errorw("failed to create finance entry", "error", err, "organization_id", cmd.OrganizationID)
		return nil, fmt.Errorf("failed to create finance entry: %w", err)
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID:    cmd.ActorUserID,
		OrganizationID: cmd.OrganizationID,
		Action:         domainaudit.ActionFinanceCreate,
		TargetType:     "finance_entry",
		TargetID:       entry.SID(),
		Detail:         map[string]any{"type": string(entry.Type()), "amount": entry.Amount(), "category": entry.Category()},
	})
	return toEntryDTO(entry), nil
}

func (s *Service) GetEntry(ctx context.Context, organizationID uint, sid string) (*EntryDTO, error) {
	entry, err := s.getOwnedEntry(ctx, organizationID, sid)
	if err != nil {
		return nil, err
	}
	return toEntryDTO(entry), nil
}

type ListEntriesQuery struct {
	OrganizationID uint
	Type           string
	Category       string
	From           *time.Time
	To             *time.Time
	Page           int
	PageSize       int
}

func (s *Service) ListEntries(ctx context.Context, q ListEntriesQuery) ([]*EntryDTO, int64, error) {
	entries, total, err := s.entryRepo.List(ctx, finance.Filter{
		OrganizationID: q.OrganizationID,
		Type:           finance.EntryType(q.Type),
		Category:       q.Category,
		From:           q.From,
		To:             q.To,
		Page:           q.Page,
		PageSize:       q.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list finance entries: %w", err)
	}

	out := make([]*EntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryDTO(e))
	}
	return out, total, nil
}

type UpdateEntryCommand struct {
	OrganizationID uint
	SID            string
	Type           string
	Amount         int64
	Category       string
	Description    string
	OccurredAt     time.Time
	ActorUserID    uint
}

func (s *Service) UpdateEntry(ctx context.Context, cmd UpdateEntryCommand) (*EntryDTO, error) {
	entry, err := s.getOwnedEntry(ctx, cmd.OrganizationID, cmd.SID)
	if err != nil {
		return nil, err
	}

	if err := entry.Update(finance.EntryType(cmd.Type), cmd.Amount, cmd.Category, cmd.Description, cmd.OccurredAt); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update finance entry: %w", err)
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID:    cmd.ActorUserID,
		OrganizationID: cmd.OrganizationID,
		Action:         domainaudit.ActionFinanceUpdate,
		TargetType:     "finance_entry",
		TargetID:       entry.SID(),
	})
	return toEntryDTO(entry), nil
}

func (s *Service) DeleteEntry(ctx context.Context, organizationID uint, sid string, actorUserID uint) error {
	entry, err := s.getOwnedEntry(ctx, organizationID, sid)
	if err != nil {
		return err
	}

	if err := s.entryRepo.Delete(ctx, entry.ID()); err != nil {
		return fmt.Errorf("failed to delete finance entry: %w", err)
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID:    actorUserID,
		OrganizationID: organizationID,
		Action:         domainaudit.ActionFinanceDelete,
		TargetType:     "finance_entry",
		TargetID:       sid,
	})
	return nil
}

// MonthlySummary aggregates income and expenses per calendar month over the
// given range. A zero range defaults to the trailing twelve months.
func (s *Service) MonthlySummary(ctx context.Context, organizationID uint, from, to time.Time) ([]*MonthlySummaryDTO, error) {
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(-1, 0, 0)
	}
	if from.After(to) {
		return nil, apperrors.NewValidationError("range start must precede range end")
	}

	summaries, err := s.entryRepo.MonthlySummaries(ctx, organizationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate finance entries: %w", err)
	}

	out := make([]*MonthlySummaryDTO, 0, len(summaries))
	for _, sm := range summaries {
		out = append(out, &MonthlySummaryDTO{
			Year:     sm.Year,
			Month:    int(sm.Month),
			Income:   sm.Income,
			Expenses: sm.Expenses,
			Net:      sm.Net,
		})
	}
	return out, nil
}

func (s *Service) getOwnedEntry(ctx context.Context, organizationID uint, sid string) (*finance.Entry, error) {
	entry, err := s.entryRepo.GetBySID(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("failed to get finance entry: %w", err)
	}
	if entry == nil || entry.OrganizationID() != organizationID {
		return nil, apperrors.NewNotFoundError("finance entry not found")
	}
	return entry, nil
}
