package organization

import (
	"fmt"
	"time"
)

// Membership binds a user to an organization with a static role and an
// optional custom-role override. The (userID, organizationID) pair is
// unique.
type Membership struct {
	id             uint
	userID         uint
	organizationID uint
	role           Role
	customRoleID   *uint
	joinedAt       time.Time
	updatedAt      time.Time
}

func NewMembership(userID, organizationID uint, role Role) (*Membership, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if organizationID == 0 {
		return nil, fmt.Errorf("organization ID is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid membership role: %s", role)
	}

	now := time.Now()
	return &Membership{
		userID:         userID,
		organizationID: organizationID,
		role:           role,
		joinedAt:       now,
		updatedAt:      now,
	}, nil
}

func ReconstructMembership(id, userID, organizationID uint, role Role, customRoleID *uint, joinedAt, updatedAt time.Time) (*Membership, error) {
	if id == 0 {
		return nil, fmt.Errorf("membership ID cannot be zero")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid membership role: %s", role)
	}

	return &Membership{
		id:             id,
		userID:         userID,
		organizationID: organizationID,
		role:           role,
		customRoleID:   customRoleID,
		joinedAt:       joinedAt,
		updatedAt:      updatedAt,
	}, nil
}

func (m *Membership) ID() uint {
	return m.id
}

func (m *Membership) SetID(id uint) error {
	if m.id != 0 {
		return fmt.Errorf("membership ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("membership ID cannot be zero")
	}
	m.id = id
	return nil
}

func (m *Membership) UserID() uint {
	return m.userID
}

func (m *Membership) OrganizationID() uint {
	return m.organizationID
}

func (m *Membership) Role() Role {
	return m.role
}

func (m *Membership) CustomRoleID() *uint {
	return m.customRoleID
}

func (m *Membership) JoinedAt() time.Time {
	return m.joinedAt
}

func (m *Membership) UpdatedAt() time.Time {
	return m.updatedAt
}

func (m *Membership) IsOwner() bool {
	return m.role == RoleOwner
}

// ChangeRole rewrites the static role. Promotion to owner goes through
// the ownership-transfer path, never here.
func (m *Membership) ChangeRole(role Role) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid membership role: %s", role)
	}
	if role == RoleOwner {
		return fmt.Errorf("ownership is assigned via transfer, not role change")
	}
	if m.role == RoleOwner {
		return fmt.Errorf("the owner role is changed via ownership transfer")
	}
	m.role = role
	m.updatedAt = time.Now()
	return nil
}

// AssignCustomRole points the membership at an organization custom role.
func (m *Membership) AssignCustomRole(customRoleID uint) error {
	if customRoleID == 0 {
		return fmt.Errorf("custom role ID is required")
	}
	m.customRoleID = &customRoleID
	m.updatedAt = time.Now()
	return nil
}

// ClearCustomRole reverts the membership to the static fallback table.
func (m *Membership) ClearCustomRole() {
	m.customRoleID = nil
	m.updatedAt = time.Now()
}

func (m *Membership) promoteToOwner() {
	m.role = RoleOwner
	m.updatedAt = time.Now()
}

func (m *Membership) demoteToAdmin() {
	m.role = RoleAdmin
	m.updatedAt = time.Now()
}

// TransferOwnership rewrites the two membership aggregates: the outgoing
// owner becomes ADMIN and the incoming member becomes OWNER. Callers must
// persist both rows in the same transaction so the system never observes
// zero or two owners.
func TransferOwnership(from, to *Membership) error {
	if from == nil || to == nil {
		return fmt.Errorf("both memberships are required")
	}
	if from.organizationID != to.organizationID {
		return fmt.Errorf("memberships belong to different organizations")
	}
	if !from.IsOwner() {
		return fmt.Errorf("outgoing membership does not hold the owner role")
	}
	if to.IsOwner() {
		return fmt.Errorf("incoming membership already holds the owner role")
	}

	from.demoteToAdmin()
	to.promoteToOwner()
	return nil
}
