package organization

import (
	"time"

	"tessera/internal/domain/organization"
)

type OrganizationDTO struct {
	ID          uint      `json:"id"`
	SID         string    `json:"sid"`
	Name        string    `json:"name"`
	OwnerUserID uint      `json:"owner_user_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type MemberDTO struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	Email        string    `json:"email,omitempty"`
	DisplayName  string    `json:"display_name,omitempty"`
	Role         string    `json:"role"`
	CustomRoleID *uint     `json:"custom_role_id,omitempty"`
	JoinedAt     time.Time `json:"joined_at"`
}

type CustomRoleDTO struct {
	ID          uint                       `json:"id"`
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Grants      []organization.ModuleGrant `json:"grants"`
	IsSystem    bool                       `json:"is_system"`
	CreatedAt   time.Time                  `json:"created_at"`
}

func toOrganizationDTO(org *organization.Organization) *OrganizationDTO {
	return &OrganizationDTO{
		ID:          org.ID(),
		SID:         org.SID(),
		Name:        org.Name(),
		OwnerUserID: org.OwnerUserID(),
		Status:      string(org.Status()),
		CreatedAt:   org.CreatedAt(),
		UpdatedAt:   org.UpdatedAt(),
	}
}

func toMemberDTO(m *organization.Membership) *MemberDTO {
	return &MemberDTO{
		ID:           m.ID(),
		UserID:       m.UserID(),
		Role:         string(m.Role()),
		CustomRoleID: m.CustomRoleID(),
		JoinedAt:     m.JoinedAt(),
	}
}

func toCustomRoleDTO(role *organization.CustomRole) *CustomRoleDTO {
	return &CustomRoleDTO{
		ID:          role.ID(),
		Name:        role.Name(),
		Description: role.Description(),
		Grants:      role.Grants(),
		IsSystem:    role.IsSystem(),
		CreatedAt:   role.CreatedAt(),
	}
}
