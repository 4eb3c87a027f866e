package audit

import (
	"context"
	"fmt"
	"time"

	"tessera/internal/domain/audit"
	"tessera/internal/shared/logger"
)

// Service writes and queries the append-only audit trail. Record is
// best-effort: a failed write is logged and never fails the audited
// operation.
type Service struct {
	repo   audit.Repository
	logger logger.Interface
}

func NewService(repo audit.Repository, logger logger.Interface) *Service {
	return &Service{repo: repo, logger: logger}
}

type RecordCommand struct {
	ActorUserID    uint
	OrganizationID uint
	Action         audit.Action
	TargetType     string
	TargetID       string
	Detail         map[string]any
	IPAddress      string
}

func (s *Service) Record(ctx context.Context, cmd RecordCommand) {
	entry, err := audit.NewEntry(cmd.ActorUserID, cmd.OrganizationID, cmd.Action, cmd.TargetType, cmd.TargetID, cmd.Detail, cmd.IPAddress)
	if err != nil {
		s.logger.Warnw("invalid audit entry dropped", "error", err, "action", cmd.Action)
		return
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Errorw("failed to write audit entry",
			"error", err,
			"action", cmd.Action,
			"actor_user_id", cmd.ActorUserID,
			"organization_id", cmd.OrganizationID,
		)
	}
}

type EntryDTO struct {
	ID             uint           `json:"id"`
	ActorUserID    uint           `json:"actor_user_id"`
	OrganizationID uint           `json:"organization_id,omitempty"`
	Action         string         `json:"action"`
	TargetType     string         `json:"target_type,omitempty"`
	TargetID       string         `json:"target_id,omitempty"`
	Detail         map[string]any `json:"detail,omitempty"`
	IPAddress      string         `json:"ip_address,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

type ListQuery struct {
	ActorUserID    uint
	OrganizationID uint
	Action         string
	TargetType     string
	From           *time.Time
	To             *time.Time
	Page           int
	PageSize       int
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]*EntryDTO, int64, error) {
	entries, total, err := s.repo.List(ctx, audit.Filter{
		ActorUserID:    q.ActorUserID,
		OrganizationID: q.OrganizationID,
		Action:         audit.Action(q.Action),
		TargetType:     q.TargetType,
		From:           q.From,
		To:             q.To,
		Page:           q.Page,
		PageSize:       q.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}

	out := make([]*EntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, &EntryDTO{
			ID:             e.ID(),
			ActorUserID:    e.ActorUserID(),
			OrganizationID: e.OrganizationID(),
			Action:         string(e.Action()),
			TargetType:     e.TargetType(),
			TargetID:       e.TargetID(),
			Detail:         e.Detail(),
			IPAddress:      e.IPAddress(),
			CreatedAt:      e.CreatedAt(),
		})
	}
	return out, total, nil
}
