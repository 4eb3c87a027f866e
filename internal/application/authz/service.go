package authz

import (
	"context"
	"fmt"

	"tessera/internal/domain/authz"
	apperrors "tessera/internal/shared/errors"
	"tessera/internal/shared/logger"
	"tessera/internal/shared/utils"
)

// Service manages the platform permission catalog, platform roles, and
// user-to-role assignments.
type Service struct {
	roleRepo       authz.RoleRepository
	assignmentRepo authz.AssignmentRepository
	logger         logger.Interface
}

func NewService(
	roleRepo authz.RoleRepository,
	assignmentRepo authz.AssignmentRepository,
	logger logger.Interface,
) *Service {
	return &Service{
		roleRepo:       roleRepo,
		assignmentRepo: assignmentRepo,
		logger:         logger,
	}
}

// ListCatalog returns the fixed permission catalog.
func (s *Service) ListCatalog() []CatalogEntryDTO {
	entries := authz.Catalog()
	out := make([]CatalogEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, CatalogEntryDTO{ID: string(e.ID), Module: e.Module})
	}
	return out
}

type CreateRoleCommand struct {
	Name        string
	Description string
	Permissions []string
}

func (s *Service) CreateRole(ctx context.Context, cmd CreateRoleCommand) (*RoleDTO, error) {
	role, err := authz.NewPlatformRole(cmd.Name, cmd.Description)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	existing, err := s.roleRepo.GetByName(ctx, role.NormalizedName())
	if err != nil {
		return nil, fmt.Errorf("failed to check role name: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("role name already in use")
	}

	if err := s.roleRepo.Create(ctx, role); err != nil {
		if apperrors.IsDuplicateError(err) {
			return nil, apperrors.NewConflictError("role name already in use")
		}
		s.logger.Errorw("failed to create platform role", "error", err, "name", cmd.Name)
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	permissions := toPermissionIDs(cmd.Permissions)
	if len(permissions) > 0 {
		if err := s.roleRepo.ReplacePermissions(ctx, role.ID(), permissions); err != nil {
			s.logger.Errorw("failed to set role permissions", "error", err, "role_id", role.ID())
			return nil, fmt.Errorf("failed to set role permissions: %w", err)
		}
	}

	s.logger.Infow("platform role created", "role_id", role.ID(), "name", role.Name())
	return toRoleDTO(role, permissions), nil
}

func (s *Service) GetRole(ctx context.Context, id uint) (*RoleDTO, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return nil, apperrors.NewNotFoundError("role not found")
	}

	permissions, err := s.roleRepo.GetPermissions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get role permissions: %w", err)
	}
	return toRoleDTO(role, permissions), nil
}

func (s *Service) ListRoles(ctx context.Context, pagination utils.Pagination) ([]*RoleDTO, int64, error) {
	roles, total, err := s.roleRepo.List(ctx, authz.RoleFilter{
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list roles: %w", err)
	}

	out := make([]*RoleDTO, 0, len(roles))
	for _, role := range roles {
		permissions, err := s.roleRepo.GetPermissions(ctx, role.ID())
		if err != nil {
			return nil, 0, fmt.Errorf("failed to get role permissions: %w", err)
		}
		out = append(out, toRoleDTO(role, permissions))
	}
	return out, total, nil
}

type UpdateRoleCommand struct {
	RoleID      uint
	Description *string
	Permissions *[]string
}

// UpdateRole updates the description and, when provided, replaces the
// role's full permission set. Unknown permission IDs are dropped silently.
func (s *Service) UpdateRole(ctx context.Context, cmd UpdateRoleCommand) (*RoleDTO, error) {
	role, err := s.roleRepo.GetByID(ctx, cmd.RoleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return nil, apperrors.NewNotFoundError("role not found")
	}
	if role.IsSystem() {
		return nil, apperrors.NewForbiddenError("system roles cannot be modified")
	}

	if cmd.Description != nil {
		role.UpdateDescription(*cmd.Description)
		if err := s.roleRepo.Update(ctx, role); err != nil {
			return nil, fmt.Errorf("failed to update role: %w", err)
		}
	}

	if cmd.Permissions != nil {
		permissions := toPermissionIDs(*cmd.Permissions)
		if err := s.roleRepo.ReplacePermissions(ctx, role.ID(), permissions); err != nil {
			s.logger.Errorw("failed to replace role permissions", "error", err, "role_id", role.ID())
			return nil, fmt.Errorf("failed to replace role permissions: %w", err)
		}
	}

	permissions, err := s.roleRepo.GetPermissions(ctx, role.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to get role permissions: %w", err)
	}
	return toRoleDTO(role, permissions), nil
}

// DeleteRole removes the role together with its permission set and every
// assignment referencing it.
func (s *Service) DeleteRole(ctx context.Context, id uint) error {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return apperrors.NewNotFoundError("role not found")
	}
	if role.IsSystem() {
		return apperrors.NewForbiddenError("system roles cannot be deleted")
	}

	if err := s.roleRepo.Delete(ctx, id); err != nil {
		s.logger.Errorw("failed to delete platform role", "error", err, "role_id", id)
		return fmt.Errorf("failed to delete role: %w", err)
	}

	s.logger.Infow("platform role deleted", "role_id", id, "name", role.Name())
	return nil
}

type AssignRoleCommand struct {
	UserID     uint
	RoleID     uint
	AssignedBy uint
}

// AssignRole grants a platform role to a user. Assigning an already held
// role is a conflict.
func (s *Service) AssignRole(ctx context.Context, cmd AssignRoleCommand) error {
	role, err := s.roleRepo.GetByID(ctx, cmd.RoleID)
	if err != nil {
		return fmt.Errorf("failed to get role: %w", err)
	}
	if role == nil {
		return apperrors.NewNotFoundError("role not found")
	}

	exists, err := s.assignmentRepo.Exists(ctx, cmd.UserID, cmd.RoleID)
	if err != nil {
		return fmt.Errorf("failed to check assignment: %w", err)
	}
	if exists {
		return apperrors.NewConflictError("role already assigned to user")
	}

	assignment, err := authz.NewRoleAssignment(cmd.UserID, cmd.RoleID, cmd.AssignedBy)
	if err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("role already assigned to user")
		}
		s.logger.Errorw("failed to assign platform role", "error", err, "user_id", cmd.UserID, "role_id", cmd.RoleID)
		return fmt.Errorf("failed to assign role: %w", err)
	}

	s.logger.Infow("platform role assigned", "user_id", cmd.UserID, "role_id", cmd.RoleID, "assigned_by", cmd.AssignedBy)
	return nil
}

// RevokeRole removes a role assignment. Revoking an absent pair is not
// found.
func (s *Service) RevokeRole(ctx context.Context, userID, roleID uint) error {
	removed, err := s.assignmentRepo.Delete(ctx, userID, roleID)
	if err != nil {
		s.logger.Errorw("failed to revoke platform role", "error", err, "user_id", userID, "role_id", roleID)
		return fmt.Errorf("failed to revoke role: %w", err)
	}
	if !removed {
		return apperrors.NewNotFoundError("role assignment not found")
	}
	s.logger.Infow("platform role revoked", "user_id", userID, "role_id", roleID)
	return nil
}

func (s *Service) ListUserAssignments(ctx context.Context, userID uint) ([]*AssignmentDTO, error) {
	assignments, err := s.assignmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	out := make([]*AssignmentDTO, 0, len(assignments))
	for _, a := range assignments {
		roleName := ""
		role, err := s.roleRepo.GetByID(ctx, a.RoleID())
		if err != nil {
			return nil, fmt.Errorf("failed to get role: %w", err)
		}
		if role != nil {
			roleName = role.Name()
		}
		out = append(out, toAssignmentDTO(a, roleName))
	}
	return out, nil
}

func toPermissionIDs(in []string) []authz.PermissionID {
	ids := make([]authz.PermissionID, 0, len(in))
	for _, p := range in {
		ids = append(ids, authz.PermissionID(p))
	}
	return authz.FilterKnown(ids)
}
