package organization

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Organization is the tenant aggregate root. OwnerUserID mirrors the
// membership row holding RoleOwner and is rewritten on ownership transfer.
type Organization struct {
	id          uint
	sid         string
	name        string
	ownerUserID uint
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
}

func NewOrganization(sid, name string, ownerUserID uint) (*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("organization name is required")
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("organization name too long (max 100 characters)")
	}
	if sid == "" {
		return nil, fmt.Errorf("organization SID is required")
	}
	if ownerUserID == 0 {
		return nil, fmt.Errorf("owner user ID is required")
	}

	now := time.Now()
	return &Organization{
		sid:         sid,
		name:        name,
		ownerUserID: ownerUserID,
		status:      StatusActive,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructOrganization(id uint, sid, name string, ownerUserID uint, status Status, createdAt, updatedAt time.Time) (*Organization, error) {
	if id == 0 {
		return nil, fmt.Errorf("organization ID cannot be zero")
	}

	return &Organization{
		id:          id,
		sid:         sid,
		name:        name,
		ownerUserID: ownerUserID,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (o *Organization) ID() uint {
	return o.id
}

func (o *Organization) SetID(id uint) error {
	if o.id != 0 {
		return fmt.Errorf("organization ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("organization ID cannot be zero")
	}
	o.id = id
	return nil
}

func (o *Organization) SID() string {
	return o.sid
}

func (o *Organization) Name() string {
	return o.name
}

func (o *Organization) OwnerUserID() uint {
	return o.ownerUserID
}

func (o *Organization) Status() Status {
	return o.status
}

func (o *Organization) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Organization) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Organization) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("organization name is required")
	}
	if len(name) > 100 {
		return fmt.Errorf("organization name too long (max 100 characters)")
	}
	o.name = name
	o.updatedAt = time.Now()
	return nil
}

func (o *Organization) TransferOwnership(newOwnerUserID uint) error {
	if newOwnerUserID == 0 {
		return fmt.Errorf("new owner user ID is required")
	}
	o.ownerUserID = newOwnerUserID
	o.updatedAt = time.Now()
	return nil
}

func (o *Organization) Suspend() {
	o.status = StatusSuspended
	o.updatedAt = time.Now()
}

func (o *Organization) Activate() {
	o.status = StatusActive
	o.updatedAt = time.Now()
}
