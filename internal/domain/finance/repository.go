package finance

import (
	"context"
	"time"
)

type Filter struct {
	OrganizationID uint
	Type           EntryType
	Category       string
	From           *time.Time
	To             *time.Time
	Page           int
	PageSize       int
}

// MonthlySummary aggregates entries for one calendar month.
type MonthlySummary struct {
	Year     int
	Month    time.Month
	Income   int64
	Expenses int64
	Net      int64
}

// Repository persists finance entries. Get methods return (nil, nil) when no
// entry matches.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id uint) (*Entry, error)
	GetBySID(ctx context.Context, sid string) (*Entry, error)
	List(ctx context.Context, filter Filter) ([]*Entry, int64, error)
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, id uint) error
	// MonthlySummaries aggregates income and expenses per calendar month
	// over the given range, most recent month first.
	MonthlySummaries(ctx context.Context, organizationID uint, from, to time.Time) ([]MonthlySummary, error)
}
