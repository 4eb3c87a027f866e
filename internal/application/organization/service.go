package organization

import (
	"context"
	"fmt"

	auditapp "tessera/internal/application/audit"
	domainaudit "tessera/internal/domain/audit"
	"tessera/internal/domain/organization"
	"tessera/internal/shared/db"
	apperrors "tessera/internal/shared/errors"
	"tessera/internal/shared/id"
	"tessera/internal/shared/logger"
	"tessera/internal/shared/utils"
)

// Service manages organizations: creation, renaming, ownership transfer,
// suspension, and deletion. Membership and custom role management live in
// MemberService.
type Service struct {
	orgRepo        organization.Repository
	membershipRepo organization.MembershipRepository
	txManager      *db.TransactionManager
	auditSvc       *auditapp.Service
	logger         logger.Interface
}

func NewService(
	orgRepo organization.Repository,
	membershipRepo organization.MembershipRepository,
	txManager *db.TransactionManager,
	auditSvc *auditapp.Service,
	logger logger.Interface,
) *Service {
	return &Service{
		orgRepo:        orgRepo,
		membershipRepo: membershipRepo,
		txManager:      txManager,
		auditSvc:       auditSvc,
		logger:         logger,
	}
}

type CreateCommand struct {
	Name        string
	OwnerUserID uint
}

// Create provisions an organization together with its owner membership in
// one transaction.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*OrganizationDTO, error) {
	sid, err := id.GenerateWithPrefix(id.PrefixOrganization, id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate organization SID: %w", err)
	}

	org, err := organization.NewOrganization(sid, cmd.Name, cmd.OwnerUserID)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.orgRepo.Create(txCtx, org); err != nil {
			return fmt.Errorf("failed to create organization: %w", err)
		}

		membership, err := organization.NewMembership(cmd.OwnerUserID, org.ID(), organization.RoleOwner)
		if err != nil {
			return err
		}
		if err := s.membershipRepo.Create(txCtx, membership); err != nil {
			return fmt.Errorf("failed to create owner membership: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Errorw("failed to provision organization", "error", err, "name", cmd.Name)
		return nil, err
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID:    cmd.OwnerUserID,
		OrganizationID: org.ID(),
		Action:         domainaudit.ActionOrganizationCreate,
		TargetType:     "organization",
		TargetID:       org.SID(),
		Detail:         map[string]any{"name": org.Name()},
	})

	s.logger.Infow("organization created", "organization_id", org.ID(), "sid", org.SID(), "owner_user_id", cmd.OwnerUserID)
	return toOrganizationDTO(org), nil
}

func (s *Service) Get(ctx context.Context, orgID uint) (*OrganizationDTO, error) {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	if org == nil {
		return nil, apperrors.NewNotFoundError("organization not found")
	}
	return toOrganizationDTO(org), nil
}

func (s *Service) GetBySID(ctx context.Context, sid string) (*OrganizationDTO, error) {
	org, err := s.orgRepo.GetBySID(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	if org == nil {
		return nil, apperrors.NewNotFoundError("organization not found")
	}
	return toOrganizationDTO(org), nil
}

func (s *Service) List(ctx context.Context, name string, pagination utils.Pagination) ([]*OrganizationDTO, int64, error) {
	orgs, total, err := s.orgRepo.List(ctx, organization.Filter{
		Name:     name,
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list organizations: %w", err)
	}

	out := make([]*OrganizationDTO, 0, len(orgs))
	for _, org := range orgs {
		out = append(out, toOrganizationDTO(org))
	}
	return out, total, nil
}

func (s *Service) ListForUser(ctx context.Context, userID uint) ([]*OrganizationDTO, error) {
	orgs, err := s.orgRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations for user: %w", err)
	}

	out := make([]*OrganizationDTO, 0, len(orgs))
	for _, org := range orgs {
		out = append(out, toOrganizationDTO(org))
	}
	return out, nil
}

type RenameCommand struct {
	OrganizationID uint
	Name           string
	ActorUserID    uint
}

func (s *Service) Rename(ctx context.Context, cmd RenameCommand) (*OrganizationDTO, error) {
	org, err := s.orgRepo.GetByID(ctx, cmd.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	if org == nil {
		return nil, apperrors.NewNotFoundError("organization not found")
	}

	oldName := org.Name()
	if err := org.Rename(cmd.Name); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID:    cmd.ActorUserID,
		OrganizationID: org.ID(),
		Action:         domainaudit.ActionOrganizationUpdate,
		TargetType:     "organization",
		TargetID:       org.SID(),
		Detail:         map[string]any{"old_name": oldName, "new_name": org.Name()},
	})
	return toOrganizationDTO(org), nil
}

type TransferOwnershipCommand struct {
	OrganizationID uint
	NewOwnerUserID uint
	ActorUserID    uint
}

// TransferOwnership moves ownership to an existing member. The former
// owner becomes an admin, the new owner's membership becomes OWNER, and
// the organization's owner mirror field follows, all in one transaction.
func (s *Service) TransferOwnership(ctx context.Context, cmd TransferOwnershipCommand) error {
	org, err := s.orgRepo.GetByID(ctx, cmd.OrganizationID)
	if err != nil {
		return fmt.Errorf("failed to get organization: %w", err)
	}
	if org == nil {
		return apperrors.NewNotFoundError("organization not found")
	}

	from, err := s.membershipRepo.GetByUserAndOrg(ctx, org.OwnerUserID(), org.ID())
	if err != nil {
		return fmt.Errorf("failed to get owner membership: %w", err)
	}
	if from == nil {
		return apperrors.NewInternalError("organization has no owner membership")
	}

	to, err := s.membershipRepo.GetByUserAndOrg(ctx, cmd.NewOwnerUserID, org.ID())
	if err != nil {
		return fmt.Errorf("failed to get target membership: %w", err)
	}
	if to == nil {
		return apperrors.NewValidationError("new owner must be an existing member")
	}

	if err := organization.TransferOwnership(from, to); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	if err := org.TransferOwnership(cmd.NewOwnerUserID); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.membershipRepo.Update(txCtx, from); err != nil {
			return fmt.Errorf("failed to update former owner membership: %w", err)
		}
		if err := s.membershipRepo.Update(txCtx, to); err != nil {
			return fmt.Errorf("failed to update new owner membership: %w", err)
		}
		if err := s.orgRepo.Update(txCtx, org); err != nil {
			return fmt.Errorf("failed to update organization: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Errorw("failed to transfer ownership", "error", err, "organization_id", org.ID())
		return err
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID:    cmd.ActorUserID,
		OrganizationID: org.ID(),
		Action:         domainaudit.ActionOrganizationTransfer,
		TargetType:     "organization",
		TargetID:       org.SID(),
		Detail:         map[string]any{"from_user_id": from.UserID(), "to_user_id": to.UserID()},
	})

	s.logger.Infow("ownership transferred", "organization_id", org.ID(), "from_user_id", from.UserID(), "to_user_id", to.UserID())
	return nil
}

func (s *Service) Suspend(ctx context.Context, orgID, actorUserID uint) error {
	return s.setStatus(ctx, orgID, actorUserID, true)
}

func (s *Service) Activate(ctx context.Context, orgID, actorUserID uint) error {
	return s.setStatus(ctx, orgID, actorUserID, false)
}

func (s *Service) setStatus(ctx context.Context, orgID, actorUserID uint, suspend bool) error {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return fmt.Errorf("failed to get organization: %w", err)
	}
	if org == nil {
		return apperrors.NewNotFoundError("organization not found")
	}

	if suspend {
		org.Suspend()
	} else {
		org.Activate()
	}

	if err := s.orgRepo.Update(ctx, org); err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID:    actorUserID,
		OrganizationID: org.ID(),
		Action:         domainaudit.ActionOrganizationUpdate,
		TargetType:     "organization",
		TargetID:       org.SID(),
		Detail:         map[string]any{"status": string(org.Status())},
	})
	return nil
}

type DeleteCommand struct {
	OrganizationID uint
	ActorUserID    uint
}

func (s *Service) Delete(ctx context.Context, cmd DeleteCommand) error {
	org, err := s.orgRepo.GetByID(ctx, cmd.OrganizationID)
	if err != nil {
		return fmt.Errorf("failed to get organization: %w", err)
	}
	if org == nil {
		return apperrors.NewNotFoundError("organization not found")
	}

	if err := s.orgRepo.Delete(ctx, cmd.OrganizationID); err != nil {
		s.logger.Errorw("failed to delete organization", "error", err, "organization_id", cmd.OrganizationID)
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID: cmd.ActorUserID,
		Action:      domainaudit.ActionOrganizationDelete,
		TargetType:  "organization",
		TargetID:    org.SID(),
		Detail:      map[string]any{"name": org.Name()},
	})

	s.logger.Infow("organization deleted", "organization_id", cmd.OrganizationID, "sid", org.SID())
	return nil
}
