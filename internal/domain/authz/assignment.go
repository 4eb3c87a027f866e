package authz

import (
	"fmt"
	"time"
)

// RoleAssignment binds a user to a platform role. The (userID, roleID)
// pair is unique: a user may hold many distinct roles but not the same
// role twice.
type RoleAssignment struct {
	id         uint
	userID     uint
	roleID     uint
	assignedBy uint
	createdAt  time.Time
}

func NewRoleAssignment(userID, roleID, assignedBy uint) (*RoleAssignment, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if roleID == 0 {
		return nil, fmt.Errorf("role ID is required")
	}

	return &RoleAssignment{
		userID:     userID,
		roleID:     roleID,
		assignedBy: assignedBy,
		createdAt:  time.Now(),
	}, nil
}

func ReconstructRoleAssignment(id, userID, roleID, assignedBy uint, createdAt time.Time) (*RoleAssignment, error) {
	if id == 0 {
		return nil, fmt.Errorf("assignment ID cannot be zero")
	}

	return &RoleAssignment{
		id:         id,
		userID:     userID,
		roleID:     roleID,
		assignedBy: assignedBy,
		createdAt:  createdAt,
	}, nil
}

func (a *RoleAssignment) ID() uint {
	return a.id
}

func (a *RoleAssignment) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("assignment ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("assignment ID cannot be zero")
	}
	a.id = id
	return nil
}

func (a *RoleAssignment) UserID() uint {
	return a.userID
}

func (a *RoleAssignment) RoleID() uint {
	return a.roleID
}

func (a *RoleAssignment) AssignedBy() uint {
	return a.assignedBy
}

func (a *RoleAssignment) CreatedAt() time.Time {
	return a.createdAt
}
