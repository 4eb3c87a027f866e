package crm

import "context"

type Filter struct {
	OrganizationID uint
	Status         LeadStatus
	AssigneeUserID uint
	Search         string
	Page           int
	PageSize       int
}

// Repository persists leads. Get methods return (nil, nil) when no lead
// matches.
type Repository interface {
	Create(ctx context.Context, lead *Lead) error
	GetByID(ctx context.Context, id uint) (*Lead, error)
	GetBySID(ctx context.Context, sid string) (*Lead, error)
	List(ctx context.Context, filter Filter) ([]*Lead, int64, error)
	Update(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, id uint) error
}
