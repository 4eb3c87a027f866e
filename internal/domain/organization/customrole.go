package organization

import (
	"fmt"
	"strings"
	"time"
)

// CustomRole is an organization-defined override of the static role
// tables: a named list of module/action grants. The (organizationID,
// name) pair is unique per organization. System custom roles cannot be
// edited or deleted.
type CustomRole struct {
	id             uint
	organizationID uint
	name           string
	description    string
	grants         []ModuleGrant
	isSystem       bool
	createdAt      time.Time
	updatedAt      time.Time
}

func NewCustomRole(organizationID uint, name, description string, grants []ModuleGrant) (*CustomRole, error) {
	if organizationID == 0 {
		return nil, fmt.Errorf("organization ID is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}
	if len(name) > 50 {
		return nil, fmt.Errorf("role name too long (max 50 characters)")
	}

	now := time.Now()
	return &CustomRole{
		organizationID: organizationID,
		name:           name,
		description:    description,
		grants:         normalizeGrants(grants),
		isSystem:       false,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// NewSystemCustomRole creates a seeded role that cannot be edited or
// deleted by organization admins.
func NewSystemCustomRole(organizationID uint, name, description string, grants []ModuleGrant) (*CustomRole, error) {
	role, err := NewCustomRole(organizationID, name, description, grants)
	if err != nil {
		return nil, err
	}
	role.isSystem = true
	return role, nil
}

func ReconstructCustomRole(id, organizationID uint, name, description string, grants []ModuleGrant, isSystem bool, createdAt, updatedAt time.Time) (*CustomRole, error) {
	if id == 0 {
		return nil, fmt.Errorf("custom role ID cannot be zero")
	}

	return &CustomRole{
		id:             id,
		organizationID: organizationID,
		name:           name,
		description:    description,
		grants:         normalizeGrants(grants),
		isSystem:       isSystem,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

// normalizeGrants drops grants naming unknown modules and empty action
// lists, so persisted roles survive module retirement.
func normalizeGrants(grants []ModuleGrant) []ModuleGrant {
	known := make(map[Module]bool, len(AllModules))
	for _, m := range AllModules {
		known[m] = true
	}

	out := make([]ModuleGrant, 0, len(grants))
	for _, g := range grants {
		if !known[g.Module] || len(g.Actions) == 0 {
			continue
		}
		out = append(out, g)
	}
	return out
}

func (r *CustomRole) ID() uint {
	return r.id
}

func (r *CustomRole) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("custom role ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("custom role ID cannot be zero")
	}
	r.id = id
	return nil
}

func (r *CustomRole) OrganizationID() uint {
	return r.organizationID
}

func (r *CustomRole) Name() string {
	return r.name
}

func (r *CustomRole) Description() string {
	return r.description
}

func (r *CustomRole) Grants() []ModuleGrant {
	out := make([]ModuleGrant, len(r.grants))
	copy(out, r.grants)
	return out
}

func (r *CustomRole) IsSystem() bool {
	return r.isSystem
}

func (r *CustomRole) CreatedAt() time.Time {
	return r.createdAt
}

func (r *CustomRole) UpdatedAt() time.Time {
	return r.updatedAt
}

// Update replaces the role's name, description and grant list. System
// roles are immutable.
func (r *CustomRole) Update(name, description string, grants []ModuleGrant) error {
	if r.isSystem {
		return fmt.Errorf("system roles cannot be modified")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("role name is required")
	}
	r.name = name
	r.description = description
	r.grants = normalizeGrants(grants)
	r.updatedAt = time.Now()
	return nil
}

// Allows reports whether the role grants the action on the module.
func (r *CustomRole) Allows(module Module, action Action) bool {
	return GrantsAllow(r.grants, module, action)
}
