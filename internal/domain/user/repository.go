package user

import "context"

type Filter struct {
	Email    string
	Status   Status
	Search   string
	Page     int
	PageSize int
}

// Repository persists user accounts. Get methods return (nil, nil) when no
// user matches.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter Filter) ([]*User, int64, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uint) error
}
