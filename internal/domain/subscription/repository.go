package subscription

import (
	"context"
	"time"
)

// Filter narrows subscription listings. Zero values mean no constraint.
type Filter struct {
	OrganizationID uint
	PlanID         uint
	Status         Status
	ActiveOnly     bool
	Page           int
	PageSize       int
}

// PlanRepository persists the plan catalog. Get methods return (nil, nil)
// when no plan matches.
type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetBySID(ctx context.Context, sid string) (*Plan, error)
	GetByName(ctx context.Context, name string) (*Plan, error)
	List(ctx context.Context, includeArchived bool) ([]*Plan, error)
	Update(ctx context.Context, plan *Plan) error
}

// Repository persists subscriptions. Get methods return (nil, nil) when no
// subscription matches.
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	GetBySID(ctx context.Context, sid string) (*Subscription, error)
	// GetActiveByOrganization returns the organization's single active
	// subscription row, or (nil, nil) if it has none.
	GetActiveByOrganization(ctx context.Context, organizationID uint) (*Subscription, error)
	List(ctx context.Context, filter Filter) ([]*Subscription, int64, error)
	ListByOrganization(ctx context.Context, organizationID uint) ([]*Subscription, error)
	// ListActive returns every active, billable subscription row. Used by
	// the revenue rollup and the renewal sweep.
	ListActive(ctx context.Context) ([]*Subscription, error)
	// ListDueForRenewal returns active rows whose renewal date is at or
	// before the cutoff.
	ListDueForRenewal(ctx context.Context, cutoff time.Time) ([]*Subscription, error)
	Update(ctx context.Context, sub *Subscription) error
	// DeactivateActiveByOrganization clears the isActive flag on the
	// organization's current active row and reports how many rows changed.
	DeactivateActiveByOrganization(ctx context.Context, organizationID uint) (int64, error)
}

// HistoryRepository is the append-only change record store.
type HistoryRepository interface {
	Create(ctx context.Context, h *History) error
	ListBySubscription(ctx context.Context, subscriptionID uint) ([]*History, error)
	ListByOrganization(ctx context.Context, organizationID uint, page, pageSize int) ([]*History, int64, error)
}
