package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Stable(t *testing.T) {
	entries := Catalog()
	require.NotEmpty(t, entries)

	seen := make(map[PermissionID]bool)
	for _, e := range entries {
		assert.False(t, seen[e.ID], "duplicate catalog entry %s", e.ID)
		seen[e.ID] = true
		assert.NotEmpty(t, e.Module)
	}
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown(PermOrgManage))
	assert.True(t, IsKnown(PermAuditView))
	assert.False(t, IsKnown(PermissionID("ORG_EXPLODE")))
	assert.False(t, IsKnown(PermissionID("")))
}

func TestFilterKnown(t *testing.T) {
	in := []PermissionID{
		PermOrgView,
		PermissionID("BOGUS"),
		PermOrgView,
		PermUserManage,
	}

	// Unknown IDs are dropped silently and duplicates collapse.
	out := FilterKnown(in)
	assert.Equal(t, []PermissionID{PermOrgView, PermUserManage}, out)
}

func TestFilterKnown_Empty(t *testing.T) {
	assert.Empty(t, FilterKnown(nil))
	assert.Empty(t, FilterKnown([]PermissionID{PermissionID("NOPE")}))
}

func TestParseGlobalRole(t *testing.T) {
	assert.Equal(t, GlobalRoleSuperAdmin, ParseGlobalRole("SUPER_ADMIN"))
	assert.Equal(t, GlobalRoleAdmin, ParseGlobalRole("ADMIN"))
	assert.Equal(t, GlobalRoleSupport, ParseGlobalRole("SUPPORT"))
	assert.Equal(t, GlobalRoleUser, ParseGlobalRole("USER"))

	// Unknown values default to the unprivileged role.
	assert.Equal(t, GlobalRoleUser, ParseGlobalRole("ROOT"))
	assert.Equal(t, GlobalRoleUser, ParseGlobalRole(""))
}

func TestGlobalRole_IsSuperAdmin(t *testing.T) {
	assert.True(t, GlobalRoleSuperAdmin.IsSuperAdmin())
	assert.False(t, GlobalRoleAdmin.IsSuperAdmin())
	assert.False(t, GlobalRoleUser.IsSuperAdmin())
}

func TestNewPlatformRole(t *testing.T) {
	role, err := NewPlatformRole("Billing Ops", "handles billing escalations")
	require.NoError(t, err)

	assert.Equal(t, "Billing Ops", role.Name())
	assert.Equal(t, "billing ops", role.NormalizedName())
	assert.False(t, role.IsSystem())
}

func TestNewPlatformRole_Invalid(t *testing.T) {
	_, err := NewPlatformRole("", "")
	assert.Error(t, err)

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	_, err = NewPlatformRole(string(long), "")
	assert.Error(t, err)
}
