package authz

// PermissionID is an atomic platform-level capability identifier. The
// catalog is append-only: identifiers are referenced by persisted
// role-permission associations and must never be renamed or removed.
type PermissionID string

const (
	PermDashboardView PermissionID = "DASHBOARD_VIEW"

	PermOrgView   PermissionID = "ORG_VIEW"
	PermOrgManage PermissionID = "ORG_MANAGE"
	PermOrgDelete PermissionID = "ORG_DELETE"

	PermUserView   PermissionID = "USER_VIEW"
	PermUserManage PermissionID = "USER_MANAGE"

	PermRoleView   PermissionID = "ROLE_VIEW"
	PermRoleManage PermissionID = "ROLE_MANAGE"

	PermSubscriptionView   PermissionID = "SUBSCRIPTION_VIEW"
	PermSubscriptionManage PermissionID = "SUBSCRIPTION_MANAGE"

	PermPlanView   PermissionID = "PLAN_VIEW"
	PermPlanManage PermissionID = "PLAN_MANAGE"

	PermFinanceView   PermissionID = "FINANCE_VIEW"
	PermFinanceManage PermissionID = "FINANCE_MANAGE"

	PermAuditView PermissionID = "AUDIT_VIEW"

	PermSettingsManage PermissionID = "SETTINGS_MANAGE"
)

// CatalogEntry pairs a permission identifier with its display module.
// The module grouping is presentational only and carries no authorization
// semantics.
type CatalogEntry struct {
	ID     PermissionID
	Module string
}

var catalog = []CatalogEntry{
	{PermDashboardView, "dashboard"},
	{PermOrgView, "organizations"},
	{PermOrgManage, "organizations"},
	{PermOrgDelete, "organizations"},
	{PermUserView, "users"},
	{PermUserManage, "users"},
	{PermRoleView, "roles"},
	{PermRoleManage, "roles"},
	{PermSubscriptionView, "subscriptions"},
	{PermSubscriptionManage, "subscriptions"},
	{PermPlanView, "plans"},
	{PermPlanManage, "plans"},
	{PermFinanceView, "finance"},
	{PermFinanceManage, "finance"},
	{PermAuditView, "audit"},
	{PermSettingsManage, "settings"},
}

var catalogIndex = func() map[PermissionID]CatalogEntry {
	m := make(map[PermissionID]CatalogEntry, len(catalog))
	for _, e := range catalog {
		m[e.ID] = e
	}
	return m
}()

// Catalog returns all platform permission entries.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog entry for an identifier.
func Lookup(id PermissionID) (CatalogEntry, bool) {
	e, ok := catalogIndex[id]
	return e, ok
}

// IsKnown reports whether the identifier exists in the catalog.
func IsKnown(id PermissionID) bool {
	_, ok := catalogIndex[id]
	return ok
}

// FilterKnown drops identifiers not present in the catalog. Unknown names
// never cause a hard failure so that seeding and role updates stay
// forward-compatible with retired identifiers.
func FilterKnown(ids []PermissionID) []PermissionID {
	out := make([]PermissionID, 0, len(ids))
	seen := make(map[PermissionID]bool, len(ids))
	for _, id := range ids {
		if !IsKnown(id) || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
