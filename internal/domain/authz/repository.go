package authz

import "context"

type RoleFilter struct {
	Name     string
	Page     int
	PageSize int
}

// RoleRepository persists platform roles and their permission associations.
// Get methods return (nil, nil) when the record is absent.
type RoleRepository interface {
	Create(ctx context.Context, role *PlatformRole) error
	GetByID(ctx context.Context, id uint) (*PlatformRole, error)
	GetByName(ctx context.Context, name string) (*PlatformRole, error)
	List(ctx context.Context, filter RoleFilter) ([]*PlatformRole, int64, error)
	Update(ctx context.Context, role *PlatformRole) error
	// Delete removes the role together with its permission associations
	// and every user assignment referencing it.
	Delete(ctx context.Context, id uint) error

	// ReplacePermissions swaps the role's full permission set. The old
	// associations are removed and the new set inserted; duplicate-key
	// insert errors are swallowed since they indicate the same permission
	// being re-granted.
	ReplacePermissions(ctx context.Context, roleID uint, permissions []PermissionID) error
	GetPermissions(ctx context.Context, roleID uint) ([]PermissionID, error)
	GetPermissionsForRoles(ctx context.Context, roleIDs []uint) ([]PermissionID, error)
}

// AssignmentRepository persists user-to-platform-role assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *RoleAssignment) error
	Exists(ctx context.Context, userID, roleID uint) (bool, error)
	Delete(ctx context.Context, userID, roleID uint) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]*RoleAssignment, error)
	ListByRole(ctx context.Context, roleID uint) ([]*RoleAssignment, error)
}
