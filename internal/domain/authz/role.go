package authz

import (
	"fmt"
	"strings"
	"time"
)

// PlatformRole is a named bag of platform permissions for the admin panel.
// Role names are unique ignoring case. System roles cannot be deleted.
type PlatformRole struct {
	id          uint
	name        string
	description string
	isSystem    bool
	createdAt   time.Time
	updatedAt   time.Time
}

func NewPlatformRole(name, description string) (*PlatformRole, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}
	if len(name) > 50 {
		return nil, fmt.Errorf("role name too long (max 50 characters)")
	}

	now := time.Now()
	return &PlatformRole{
		name:        name,
		description: description,
		isSystem:    false,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// NewSystemPlatformRole builds a role with the system flag set. Used by
// the seed process only.
func NewSystemPlatformRole(name, description string) (*PlatformRole, error) {
	role, err := NewPlatformRole(name, description)
	if err != nil {
		return nil, err
	}
	role.isSystem = true
	return role, nil
}

func ReconstructPlatformRole(id uint, name, description string, isSystem bool, createdAt, updatedAt time.Time) (*PlatformRole, error) {
	if id == 0 {
		return nil, fmt.Errorf("role ID cannot be zero")
	}

	return &PlatformRole{
		id:          id,
		name:        name,
		description: description,
		isSystem:    isSystem,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (r *PlatformRole) ID() uint {
	return r.id
}

func (r *PlatformRole) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("role ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("role ID cannot be zero")
	}
	r.id = id
	return nil
}

func (r *PlatformRole) Name() string {
	return r.name
}

// NormalizedName returns the case-insensitive uniqueness key for the role.
func (r *PlatformRole) NormalizedName() string {
	return strings.ToLower(r.name)
}

func (r *PlatformRole) Description() string {
	return r.description
}

func (r *PlatformRole) IsSystem() bool {
	return r.isSystem
}

func (r *PlatformRole) CreatedAt() time.Time {
	return r.createdAt
}

func (r *PlatformRole) UpdatedAt() time.Time {
	return r.updatedAt
}

func (r *PlatformRole) UpdateDescription(description string) {
	r.description = description
	r.updatedAt = time.Now()
}
