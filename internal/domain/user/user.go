package user

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"tessera/internal/domain/authz"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// User is a platform account. Organization roles live on memberships;
// the global role here is platform-wide and independent of any organization.
type User struct {
	id           uint
	email        string
	passwordHash string
	displayName  string
	globalRole   authz.GlobalRole
	status       Status
	lastLoginAt  *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

func NewUser(email, passwordHash, displayName string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, fmt.Errorf("display name is required")
	}
	if len(displayName) > 100 {
		return nil, fmt.Errorf("display name cannot exceed 100 characters")
	}

	now := time.Now()
	return &User{
		email:        email,
		passwordHash: passwordHash,
		displayName:  displayName,
		globalRole:   authz.GlobalRoleUser,
		status:       StatusActive,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructUser(id uint, email, passwordHash, displayName string, globalRole authz.GlobalRole, status Status, lastLoginAt *time.Time, createdAt, updatedAt time.Time) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}

	return &User{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		displayName:  displayName,
		globalRole:   globalRole,
		status:       status,
		lastLoginAt:  lastLoginAt,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email address: %s", email)
	}
	return nil
}

func (u *User) ID() uint {
	return u.id
}

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

func (u *User) Email() string {
	return u.email
}

func (u *User) PasswordHash() string {
	return u.passwordHash
}

func (u *User) DisplayName() string {
	return u.displayName
}

func (u *User) GlobalRole() authz.GlobalRole {
	return u.globalRole
}

func (u *User) Status() Status {
	return u.status
}

func (u *User) LastLoginAt() *time.Time {
	return u.lastLoginAt
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

func (u *User) IsActive() bool {
	return u.status == StatusActive
}

func (u *User) IsSuperAdmin() bool {
	return u.globalRole.IsSuperAdmin()
}

func (u *User) UpdateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("display name is required")
	}
	if len(name) > 100 {
		return fmt.Errorf("display name cannot exceed 100 characters")
	}
	u.displayName = name
	u.updatedAt = time.Now()
	return nil
}

func (u *User) ChangePassword(passwordHash string) error {
	if passwordHash == "" {
		return fmt.Errorf("password hash is required")
	}
	u.passwordHash = passwordHash
	u.updatedAt = time.Now()
	return nil
}

func (u *User) SetGlobalRole(role authz.GlobalRole) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid global role: %s", role)
	}
	u.globalRole = role
	u.updatedAt = time.Now()
	return nil
}

func (u *User) RecordLogin() {
	now := time.Now()
	u.lastLoginAt = &now
	u.updatedAt = now
}

func (u *User) Suspend() {
	u.status = StatusSuspended
	u.updatedAt = time.Now()
}

func (u *User) Activate() {
	u.status = StatusActive
	u.updatedAt = time.Now()
}
