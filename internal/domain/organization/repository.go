package organization

import "context"

type Filter struct {
	Name     string
	Status   Status
	Page     int
	PageSize int
}

// Repository persists organizations. Get methods return (nil, nil) when
// the record is absent.
type Repository interface {
	Create(ctx context.Context, org *Organization) error
	GetByID(ctx context.Context, id uint) (*Organization, error)
	GetBySID(ctx context.Context, sid string) (*Organization, error)
	List(ctx context.Context, filter Filter) ([]*Organization, int64, error)
	ListByUser(ctx context.Context, userID uint) ([]*Organization, error)
	Update(ctx context.Context, org *Organization) error
	Delete(ctx context.Context, id uint) error
}

// MembershipRepository persists organization memberships.
type MembershipRepository interface {
	Create(ctx context.Context, membership *Membership) error
	GetByID(ctx context.Context, id uint) (*Membership, error)
	GetByUserAndOrg(ctx context.Context, userID, organizationID uint) (*Membership, error)
	ListByOrganization(ctx context.Context, organizationID uint) ([]*Membership, error)
	CountByOrganization(ctx context.Context, organizationID uint) (int64, error)
	Update(ctx context.Context, membership *Membership) error
	Delete(ctx context.Context, id uint) error
}

// CustomRoleRepository persists organization custom roles.
type CustomRoleRepository interface {
	Create(ctx context.Context, role *CustomRole) error
	GetByID(ctx context.Context, id uint) (*CustomRole, error)
	GetByOrgAndName(ctx context.Context, organizationID uint, name string) (*CustomRole, error)
	ListByOrganization(ctx context.Context, organizationID uint) ([]*CustomRole, error)
	Update(ctx context.Context, role *CustomRole) error
	Delete(ctx context.Context, id uint) error
}
