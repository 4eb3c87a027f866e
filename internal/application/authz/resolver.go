package authz

import (
	"context"
	"fmt"

	"tessera/internal/domain/authz"
	"tessera/internal/shared/logger"
)

// Resolver answers "does this user hold this platform permission". Users
// with the SUPER_ADMIN global role hold every permission without any role
// lookup; for everyone else the effective set is the union of the
// permission sets of all roles assigned to the user.
type Resolver struct {
	roleRepo       authz.RoleRepository
	assignmentRepo authz.AssignmentRepository
	logger         logger.Interface
}

func NewResolver(
	roleRepo authz.RoleRepository,
	assignmentRepo authz.AssignmentRepository,
	logger logger.Interface,
) *Resolver {
	return &Resolver{
		roleRepo:       roleRepo,
		assignmentRepo: assignmentRepo,
		logger:         logger,
	}
}

// ResolvePermissions returns the user's effective permission set. The
// super-admin bypass is handled in Has; this method always resolves from
// assignments so callers can display the literal set.
func (r *Resolver) ResolvePermissions(ctx context.Context, userID uint) ([]authz.PermissionID, error) {
	assignments, err := r.assignmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list role assignments: %w", err)
	}
	if len(assignments) == 0 {
		return nil, nil
	}

	roleIDs := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		roleIDs = append(roleIDs, a.RoleID())
	}

	permissions, err := r.roleRepo.GetPermissionsForRoles(ctx, roleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve role permissions: %w", err)
	}
	// The store may hold IDs written before a catalog revision; drop any
	// that the current catalog no longer knows.
	return authz.FilterKnown(permissions), nil
}

// Has reports whether the user holds the permission. SUPER_ADMIN passes
// every check, including IDs not present in the catalog.
func (r *Resolver) Has(ctx context.Context, userID uint, globalRole authz.GlobalRole, permission authz.PermissionID) (bool, error) {
	if globalRole.IsSuperAdmin() {
		return true, nil
	}

	permissions, err := r.ResolvePermissions(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, p := range permissions {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}
