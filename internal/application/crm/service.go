package crm

import (
	"context"
	"fmt"
	"time"

	auditapp "tessera/internal/application/audit"
	domainaudit "tessera/internal/domain/audit"
	"tessera/internal/domain/crm"
	apperrors "tessera/internal/shared/errors"
	"tessera/internal/shared/id"
	"tessera/internal/shared/logger"
)

// NoteRenderer converts markdown lead notes into sanitized HTML.
type NoteRenderer interface {
	Render(markdown string) (string, error)
}

type Service struct {
	leadRepo crm.Repository
	renderer NoteRenderer
	auditSvc *auditapp.Service
	logger   logger.Interface
}

func NewService(leadRepo crm.Repository, renderer NoteRenderer, auditSvc *auditapp.Service, logger logger.Interface) *Service {
	return &Service{leadRepo: leadRepo, renderer: renderer, auditSvc: auditSvc, logger: logger}
}

type LeadDTO struct {
	ID             uint      `json:"id"`
	SID            string    `json:"sid"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Company        string    `json:"company,omitempty"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
	NotesHTML      string    `json:"notes_html,omitempty"`
	AssigneeUserID uint      `json:"assignee_user_id,omitempty"`
	CreatedBy      uint      `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (s *Service) toDTO(lead *crm.Lead, renderNotes bool) *LeadDTO {
	dto := &LeadDTO{
		ID:             lead.ID(),
		SID:            lead.SID(),
		Name:           lead.Name(),
		Email:          lead.Email(),
		Phone:          lead.Phone(),
		Company:        lead.Company(),
		Status:         string(lead.Status()),
		Notes:          lead.Notes(),
		AssigneeUserID: lead.AssigneeUserID(),
		CreatedBy:      lead.CreatedBy(),
		CreatedAt:      lead.CreatedAt(),
		UpdatedAt:      lead.UpdatedAt(),
	}
	if renderNotes && lead.Notes() != "" && s.renderer != nil {
		html, err := s.renderer.Render(lead.Notes())
		if err != nil {
			s.logger.Warnw("failed to render lead notes", "error", err, "lead_id", lead.ID())
		} else {
			dto.NotesHTML = html
		}
	}
	return dto
}

type CreateLeadCommand struct {
	OrganizationID uint
	Name           string
	Email          string
	Phone          string
	Company        string
	ActorUserID    uint
}

func (s *Service) CreateLead(ctx context.Context, cmd CreateLeadCommand) (*LeadDTO, error) {
	sid, err := id.GenerateWithPrefix(id.PrefixLead, id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate lead SID: %w", err)
	}

	lead, err := crm.NewLead(sid, cmd.OrganizationID, cmd.Name, cmd.Email, cmd.Phone, cmd.Company, cmd.ActorUserID)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		s.logger.Errorw("failed to create lead", "error", err, "organization_id", cmd.OrganizationID)
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID:    cmd.ActorUserID,
		OrganizationID: cmd.OrganizationID,
		Action:         domainaudit.ActionLeadCreate,
		TargetType:     "lead",
		TargetID:       lead.SID(),
		Detail:         map[string]any{"name": lead.Name()},
	})
	return s.toDTO(lead, false), nil
}

func (s *Service) GetLead(ctx context.Context, organizationID uint, sid string) (*LeadDTO, error) {
	lead, err := s.getOwnedLead(ctx, organizationID, sid)
	if err != nil {
		return nil, err
	}
	return s.toDTO(lead, true), nil
}

type ListLeadsQuery struct {
	OrganizationID uint
	Status         string
	AssigneeUserID uint
	Search         string
	Page           int
	PageSize       int
}

func (s *Service) ListLeads(ctx context.Context, q ListLeadsQuery) ([]*LeadDTO, int64, error) {
	leads, total, err := s.leadRepo.List(ctx, crm.Filter{
		OrganizationID: q.OrganizationID,
		Status:         crm.LeadStatus(q.Status),
		AssigneeUserID: q.AssigneeUserID,
		Search:         q.Search,
		Page:           q.Page,
		PageSize:       q.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}

	out := make([]*LeadDTO, 0, len(leads))
	for _, lead := range leads {
		out = append(out, s.toDTO(lead, false))
	}
	return out, total, nil
}

type UpdateLeadCommand struct {
	OrganizationID uint
	SID            string
	Name           string
	Email          string
	Phone          string
	Company        string
	Status         string
	Notes          *string
	ActorUserID    uint
}

func (s *Service) UpdateLead(ctx context.Context, cmd UpdateLeadCommand) (*LeadDTO, error) {
	lead, err := s.getOwnedLead(ctx, cmd.OrganizationID, cmd.SID)
	if err != nil {
		return nil, err
	}

	if err := lead.Update(cmd.Name, cmd.Email, cmd.Phone, cmd.Company); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if cmd.Status != "" {
		if err := lead.ChangeStatus(crm.LeadStatus(cmd.Status)); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}
	if cmd.Notes != nil {
		lead.SetNotes(*cmd.Notes)
	}

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID:    cmd.ActorUserID,
		OrganizationID: cmd.OrganizationID,
		Action:         domainaudit.ActionLeadUpdate,
		TargetType:     "lead",
		TargetID:       lead.SID(),
	})
	return s.toDTO(lead, true), nil
}

type AssignLeadCommand struct {
	OrganizationID uint
	SID            string
	AssigneeUserID uint
	ActorUserID    uint
}

func (s *Service) AssignLead(ctx context.Context, cmd AssignLeadCommand) (*LeadDTO, error) {
	lead, err := s.getOwnedLead(ctx, cmd.OrganizationID, cmd.SID)
	if err != nil {
		return nil, err
	}

	if cmd.AssigneeUserID == 0 {
		lead.Unassign()
	} else {
		lead.Assign(cmd.AssigneeUserID)
	}

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}
	return s.toDTO(lead, false), nil
}

func (s *Service) DeleteLead(ctx context.Context, organizationID uint, sid string, actorUserID uint) error {
	lead, err := s.getOwnedLead(ctx, organizationID, sid)
	if err != nil {
		return err
	}

	if err := s.leadRepo.Delete(ctx, lead.ID()); err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID:    actorUserID,
		OrganizationID: organizationID,
		Action:         domainaudit.ActionLeadDelete,
		TargetType:     "lead",
		TargetID:       sid,
		Detail:         map[string]any{"name": lead.Name()},
	})
	return nil
}

// getOwnedLead loads a lead by SID and verifies it belongs to the
// organization. Leads of other organizations are reported as not found.
func (s *Service) getOwnedLead(ctx context.Context, organizationID uint, sid string) (*crm.Lead, error) {
	lead, err := s.leadRepo.GetBySID(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	if lead == nil || lead.OrganizationID() != organizationID {
		return nil, apperrors.NewNotFoundError("lead not found")
	}
	return lead, nil
}
