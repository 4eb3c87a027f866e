package organization

// Role is the legacy static membership role. Exactly one membership per
// organization holds RoleOwner at all times.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// Permission is the legacy coarse organization permission, kept for
// backward compatibility with routes gated before the module/action
// model existed. The coarse and fine-grained sets are resolved side by
// side and never unified.
type Permission string

const (
	PermissionViewLeads     Permission = "VIEW_LEADS"
	PermissionManageLeads   Permission = "MANAGE_LEADS"
	PermissionViewFinance   Permission = "VIEW_FINANCE"
	PermissionManageFinance Permission = "MANAGE_FINANCE"
	PermissionManageMembers Permission = "MANAGE_MEMBERS"
	PermissionManageOrg     Permission = "MANAGE_ORGANIZATION"
	PermissionManageBilling Permission = "MANAGE_BILLING"
	PermissionViewReports   Permission = "VIEW_REPORTS"
)

// legacyRolePermissions is the hardcoded coarse permission table for the
// static roles.
var legacyRolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionViewLeads, PermissionManageLeads,
		PermissionViewFinance, PermissionManageFinance,
		PermissionManageMembers, PermissionManageOrg,
		PermissionManageBilling, PermissionViewReports,
	},
	RoleAdmin: {
		PermissionViewLeads, PermissionManageLeads,
		PermissionViewFinance, PermissionManageFinance,
		PermissionManageMembers, PermissionViewReports,
	},
	RoleMember: {
		PermissionViewLeads, PermissionViewFinance, PermissionViewReports,
	},
}

// LegacyPermissionsFor returns the coarse permission set for a static role.
func LegacyPermissionsFor(role Role) []Permission {
	perms := legacyRolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// fallbackGrants is the hardcoded module/action table applied when a
// membership has no custom role. Owners get every module with the
// enumerated concrete actions rather than the MANAGE sentinel; the two
// are functionally equivalent and the enumerated form is the one
// persisted role data has always assumed.
var fallbackGrants = map[Role][]ModuleGrant{
	RoleOwner: ownerGrants(),
	RoleAdmin: {
		{Module: ModuleCRM, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}},
		{Module: ModuleFinance, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}},
		{Module: ModuleUsers, Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: ModuleSettings, Actions: []Action{ActionRead}},
		{Module: ModuleBilling, Actions: []Action{ActionRead}},
		{Module: ModuleReports, Actions: []Action{ActionRead}},
	},
	RoleMember: {
		{Module: ModuleCRM, Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: ModuleFinance, Actions: []Action{ActionRead}},
		{Module: ModuleReports, Actions: []Action{ActionRead}},
	},
}

func ownerGrants() []ModuleGrant {
	grants := make([]ModuleGrant, 0, len(AllModules))
	for _, m := range AllModules {
		actions := make([]Action, len(ConcreteActions))
		copy(actions, ConcreteActions)
		grants = append(grants, ModuleGrant{Module: m, Actions: actions})
	}
	return grants
}

// FallbackGrantsFor returns the static module/action grants for a role.
func FallbackGrantsFor(role Role) []ModuleGrant {
	grants := fallbackGrants[role]
	out := make([]ModuleGrant, len(grants))
	copy(out, grants)
	return out
}
