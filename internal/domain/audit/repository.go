package audit

import (
	"context"
	"time"
)

type Filter struct {
	ActorUserID    uint
	OrganizationID uint
	Action         Action
	TargetType     string
	From           *time.Time
	To             *time.Time
	Page           int
	PageSize       int
}

// Repository is the append-only audit store. There is deliberately no
// update or delete.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	List(ctx context.Context, filter Filter) ([]*Entry, int64, error)
}
