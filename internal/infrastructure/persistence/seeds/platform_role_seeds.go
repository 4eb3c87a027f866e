package seeds

import (
	"strings"

	"gorm.io/gorm"

	"tessera/internal/domain/authz"
	"tessera/internal/infrastructure/persistence/models"
)

type systemRole struct {
	name        string
	description string
	permissions []authz.PermissionID
}

// systemRoles are created on startup and cannot be edited or deleted
// through the API. Operator permission sets beyond these are defined
// as regular platform roles.
var systemRoles = []systemRole{
	{
		name:        "platform_admin",
		description: "Full administrative access to every platform module",
		permissions: allCatalogPermissions(),
	},
	{
		name:        "support",
		description: "Read access for customer support staff",
		permissions: []authz.PermissionID{
			authz.PermDashboardView,
			authz.PermOrgView,
			authz.PermUserView,
			authz.PermSubscriptionView,
			authz.PermPlanView,
			authz.PermAuditView,
		},
	},
	{
		name:        "billing_operator",
		description: "Manages plans, subscriptions and finance records",
		permissions: []authz.PermissionID{
			authz.PermDashboardView,
			authz.PermOrgView,
			authz.PermSubscriptionView,
			authz.PermSubscriptionManage,
			authz.PermPlanView,
			authz.PermPlanManage,
			authz.PermFinanceView,
			authz.PermFinanceManage,
		},
	},
}

func allCatalogPermissions() []authz.PermissionID {
	entries := authz.Catalog()
	ids := make([]authz.PermissionID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}

// SeedPlatformRoles creates the built-in platform roles and their
// permission sets. Existing roles are left untouched except for missing
// permissions, which are added.
func SeedPlatformRoles(db *gorm.DB) error {
	for _, role := range systemRoles {
		model := models.PlatformRoleModel{
			Name:           role.name,
			NormalizedName: strings.ToLower(role.name),
			Description:    role.description,
			IsSystem:       true,
		}

		if err := db.FirstOrCreate(&model, models.PlatformRoleModel{
			NormalizedName: model.NormalizedName,
		}).Error; err != nil {
			return err
		}

		for _, permission := range role.permissions {
			perm := models.PlatformRolePermissionModel{
				RoleID:       model.ID,
				PermissionID: string(permission),
			}
			if err := db.FirstOrCreate(&perm, models.PlatformRolePermissionModel{
				RoleID:       model.ID,
				PermissionID: string(permission),
			}).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
