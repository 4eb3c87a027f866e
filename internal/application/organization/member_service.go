package organization

import (
	"context"
	"fmt"

	auditapp "tessera/internal/application/audit"
	domainaudit "tessera/internal/domain/audit"
	"tessera/internal/domain/organization"
	"tessera/internal/domain/user"
	apperrors "tessera/internal/shared/errors"
	"tessera/internal/shared/logger"
)

// InviteSender delivers membership invitation mail. Implementations may be
// a no-op when mail is disabled.
type InviteSender interface {
	SendInvite(ctx context.Context, email, organizationName, inviterName string) error
}

// MemberService manages organization memberships and custom roles.
type MemberService struct {
	orgRepo        organization.Repository
	membershipRepo organization.MembershipRepository
	customRoleRepo organization.CustomRoleRepository
	userRepo       user.Repository
	inviteSender   InviteSender
	auditSvc       *auditapp.Service
	logger         logger.Interface
}

func NewMemberService(
	orgRepo organization.Repository,
	membershipRepo organization.MembershipRepository,
	customRoleRepo organization.CustomRoleRepository,
	userRepo user.Repository,
	inviteSender InviteSender,
	auditSvc *auditapp.Service,
	logger logger.Interface,
) *MemberService {
	return &MemberService{
		orgRepo:        orgRepo,
		membershipRepo: membershipRepo,
		customRoleRepo: customRoleRepo,
		userRepo:       userRepo,
		inviteSender:   inviteSender,
		auditSvc:       auditSvc,
		logger:         logger,
	}
}

type AddMemberCommand struct {
	OrganizationID uint
	Email          string
	Role           organization.Role
	ActorUserID    uint
}

// AddMember adds an existing platform user to the organization by email
// and sends them an invitation notice.
func (s *MemberService) AddMember(ctx context.Context, cmd AddMemberCommand) (*MemberDTO, error) {
	if cmd.Role == organization.RoleOwner {
		return nil, apperrors.NewValidationError("members cannot be added as owner")
	}

	org, err := s.orgRepo.GetByID(ctx, cmd.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	if org == nil {
		return nil, apperrors.NewNotFoundError("organization not found")
	}

	u, err := s.userRepo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if u == nil {
		return nil, apperrors.NewNotFoundError("no user with that email")
	}

	existing, err := s.membershipRepo.GetByUserAndOrg(ctx, u.ID(), org.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("user is already a member")
	}

	membership, err := organization.NewMembership(u.ID(), org.ID(), cmd.Role)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		if apperrors.IsDuplicateError(err) {
			return nil, apperrors.NewConflictError("user is already a member")
		}
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	if s.inviteSender != nil {
		inviterName := ""
		if actor, err := s.userRepo.GetByID(ctx, cmd.ActorUserID); err == nil && actor != nil {
			inviterName = actor.DisplayName()
		}
		if err := s.inviteSender.SendInvite(ctx, u.Email(), org.Name(), inviterName); err != nil {
			s.logger.Warnw("failed to send invite mail", "error", err, "email", u.Email())
		}
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID:    cmd.ActorUserID,
		OrganizationID: org.ID(),
		Action:         domainaudit.ActionMemberAdd,
		TargetType:     "membership",
		TargetID:       fmt.Sprintf("%d", membership.ID()),
		Detail:         map[string]any{"user_id": u.ID(), "role": string(cmd.Role)},
	})

	dto := toMemberDTO(membership)
	dto.Email = u.Email()
	dto.DisplayName = u.DisplayName()
	return dto, nil
}

func (s *MemberService) ListMembers(ctx context.Context, organizationID uint) ([]*MemberDTO, error) {
	memberships, err := s.membershipRepo.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	out := make([]*MemberDTO, 0, len(memberships))
	for _, m := range memberships {
		dto := toMemberDTO(m)
		if u, err := s.userRepo.GetByID(ctx, m.UserID()); err == nil && u != nil {
			dto.Email = u.Email()
			dto.DisplayName = u.DisplayName()
		}
		out = append(out, dto)
	}
	return out, nil
}

type ChangeMemberRoleCommand struct {
	OrganizationID uint
	MemberUserID   uint
	NewRole        organization.Role
	ActorUserID    uint
}

func (s *MemberService) ChangeMemberRole(ctx context.Context, cmd ChangeMemberRoleCommand) error {
	membership, err := s.membershipRepo.GetByUserAndOrg(ctx, cmd.MemberUserID, cmd.OrganizationID)
	if err != nil {
		return fmt.Errorf("failed to get membership: %w", err)
	}
	if membership == nil {
		return apperrors.NewNotFoundError("membership not found")
	}

	oldRole := membership.Role()
	if err := membership.ChangeRole(cmd.NewRole); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	if err := s.membershipRepo.Update(ctx, membership); err != nil {
		return fmt.Errorf("failed to update membership: %w", err)
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID:    cmd.ActorUserID,
		OrganizationID: cmd.OrganizationID,
		Action:         domainaudit.ActionMemberRoleChange,
		TargetType:     "membership",
		TargetID:       fmt.Sprintf("%d", membership.ID()),
		Detail:         map[string]any{"user_id": cmd.MemberUserID, "old_role": string(oldRole), "new_role": string(cmd.NewRole)},
	})
	return nil
}

type RemoveMemberCommand struct {
	OrganizationID uint
	MemberUserID   uint
	ActorUserID    uint
}

// RemoveMember removes a non-owner member. The owner leaves only by
// transferring ownership first.
func (s *MemberService) RemoveMember(ctx context.Context, cmd RemoveMemberCommand) error {
	membership, err := s.membershipRepo.GetByUserAndOrg(ctx, cmd.MemberUserID, cmd.OrganizationID)
	if err != nil {
		return fmt.Errorf("failed to get membership: %w", err)
	}
	if membership == nil {
		return apperrors.NewNotFoundError("membership not found")
	}
	if membership.IsOwner() {
		return apperrors.NewValidationError("the owner cannot be removed; transfer ownership first")
	}

	if err := s.membershipRepo.Delete(ctx, membership.ID()); err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID:    cmd.ActorUserID,
		OrganizationID: cmd.OrganizationID,
		Action:         domainaudit.ActionMemberRemove,
		TargetType:     "membership",
		TargetID:       fmt.Sprintf("%d", membership.ID()),
		Detail:         map[string]any{"user_id": cmd.MemberUserID},
	})
	return nil
}

type AssignCustomRoleCommand struct {
	OrganizationID uint
	MemberUserID   uint
	CustomRoleID   *uint
	ActorUserID    uint
}

// AssignCustomRole attaches a custom role to a membership, or clears the
// attachment when CustomRoleID is nil.
func (s *MemberService) AssignCustomRole(ctx context.Context, cmd AssignCustomRoleCommand) error {
	membership, err := s.membershipRepo.GetByUserAndOrg(ctx, cmd.MemberUserID, cmd.OrganizationID)
	if err != nil {
		return fmt.Errorf("failed to get membership: %w", err)
	}
	if membership == nil {
		return apperrors.NewNotFoundError("membership not found")
	}

	if cmd.CustomRoleID == nil {
		membership.ClearCustomRole()
	} else {
		role, err := s.customRoleRepo.GetByID(ctx, *cmd.CustomRoleID)
		if err != nil {
			return fmt.Errorf("failed to get custom role: %w", err)
		}
		if role == nil || role.OrganizationID() != cmd.OrganizationID {
			return apperrors.NewNotFoundError("custom role not found")
		}
		if err := membership.AssignCustomRole(role.ID()); err != nil {
			return apperrors.NewValidationError(err.Error())
		}
	}

	if err := s.membershipRepo.Update(ctx, membership); err != nil {
		return fmt.Errorf("failed to update membership: %w", err)
	}
	return nil
}

type CreateCustomRoleCommand struct {
	OrganizationID uint
	Name           string
	Description    string
	Grants         []organization.ModuleGrant
	ActorUserID    uint
}

func (s *MemberService) CreateCustomRole(ctx context.Context, cmd CreateCustomRoleCommand) (*CustomRoleDTO, error) {
	role, err := organization.NewCustomRole(cmd.OrganizationID, cmd.Name, cmd.Description, cmd.Grants)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	existing, err := s.customRoleRepo.GetByOrgAndName(ctx, cmd.OrganizationID, role.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to check role name: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("role name already in use")
	}

	if err := s.customRoleRepo.Create(ctx, role); err != nil {
		if apperrors.IsDuplicateError(err) {
			return nil, apperrors.NewConflictError("role name already in use")
		}
		return nil, fmt.Errorf("failed to create custom role: %w", err)
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID:    cmd.ActorUserID,
		OrganizationID: cmd.OrganizationID,
		Action:         domainaudit.ActionCustomRoleCreate,
		TargetType:     "custom_role",
		TargetID:       fmt.Sprintf("%d", role.ID()),
		Detail:         map[string]any{"name": role.Name()},
	})
	return toCustomRoleDTO(role), nil
}

func (s *MemberService) ListCustomRoles(ctx context.Context, organizationID uint) ([]*CustomRoleDTO, error) {
	roles, err := s.customRoleRepo.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom roles: %w", err)
	}

	out := make([]*CustomRoleDTO, 0, len(roles))
	for _, role := range roles {
		out = append(out, toCustomRoleDTO(role))
	}
	return out, nil
}

type UpdateCustomRoleCommand struct {
	OrganizationID uint
	CustomRoleID   uint
	Name           string
	Description    string
	Grants         []organization.ModuleGrant
	ActorUserID    uint
}

func (s *MemberService) UpdateCustomRole(ctx context.Context, cmd UpdateCustomRoleCommand) (*CustomRoleDTO, error) {
	role, err := s.customRoleRepo.GetByID(ctx, cmd.CustomRoleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get custom role: %w", err)
	}
	if role == nil || role.OrganizationID() != cmd.OrganizationID {
		return nil, apperrors.NewNotFoundError("custom role not found")
	}

	if err := role.Update(cmd.Name, cmd.Description, cmd.Grants); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.customRoleRepo.Update(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to update custom role: %w", err)
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID:    cmd.ActorUserID,
		OrganizationID: cmd.OrganizationID,
		Action:         domainaudit.ActionCustomRoleUpdate,
		TargetType:     "custom_role",
		TargetID:       fmt.Sprintf("%d", role.ID()),
		Detail:         map[string]any{"name": role.Name()},
	})
	return toCustomRoleDTO(role), nil
}

type DeleteCustomRoleCommand struct {
	OrganizationID uint
	CustomRoleID   uint
	ActorUserID    uint
}

// DeleteCustomRole removes a custom role. Memberships still referencing it
// fall back to their coarse role's grants the next time they are resolved.
func (s *MemberService) DeleteCustomRole(ctx context.Context, cmd DeleteCustomRoleCommand) error {
	role, err := s.customRoleRepo.GetByID(ctx, cmd.CustomRoleID)
	if err != nil {
		return fmt.Errorf("failed to get custom role: %w", err)
	}
	if role == nil || role.OrganizationID() != cmd.OrganizationID {
		return apperrors.NewNotFoundError("custom role not found")
	}
	if role.IsSystem() {
		return apperrors.NewForbiddenError("system roles cannot be deleted")
	}

	if err := s.customRoleRepo.Delete(ctx, cmd.CustomRoleID); err != nil {
		return fmt.Errorf("failed to delete custom role: %w", err)
	}

	s.auditSvc.Record(ctx, auditapp.RecordCommand{
		ActorUserID:    cmd.ActorUserID,
		OrganizationID: cmd.OrganizationID,
		Action:         domainaudit.ActionCustomRoleDelete,
		TargetType:     "custom_role",
		TargetID:       fmt.Sprintf("%d", cmd.CustomRoleID),
		Detail:         map[string]any{"name": role.Name()},
	})
	return nil
}
