package authz

import (
	"time"

	"tessera/internal/domain/authz"
)

type RoleDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsSystem    bool      `json:"is_system"`
	Permissions []string  `json:"permissions,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AssignmentDTO struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	RoleID     uint      `json:"role_id"`
	RoleName   string    `json:"role_name,omitempty"`
	AssignedBy uint      `json:"assigned_by"`
	CreatedAt  time.Time `json:"created_at"`
}

type CatalogEntryDTO struct {
	ID     string `json:"id"`
	Module string `json:"module"`
}

func toRoleDTO(role *authz.PlatformRole, permissions []authz.PermissionID) *RoleDTO {
	dto := &RoleDTO{
		ID:          role.ID(),
		Name:        role.Name(),
		Description: role.Description(),
		IsSystem:    role.IsSystem(),
		CreatedAt:   role.CreatedAt(),
		UpdatedAt:   role.UpdatedAt(),
	}
	for _, p := range permissions {
		dto.Permissions = append(dto.Permissions, string(p))
	}
	return dto
}

func toAssignmentDTO(a *authz.RoleAssignment, roleName string) *AssignmentDTO {
	return &AssignmentDTO{
		ID:         a.ID(),
		UserID:     a.UserID(),
		RoleID:     a.RoleID(),
		RoleName:   roleName,
		AssignedBy: a.AssignedBy(),
		CreatedAt:  a.CreatedAt(),
	}
}
