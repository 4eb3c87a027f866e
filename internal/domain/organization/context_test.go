package organization

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reconstructMembership(t *testing.T, role Role, customRoleID *uint) *Membership {
	t.Helper()
	now := time.Now()
	m, err := ReconstructMembership(1, 10, 100, role, customRoleID, now, now)
	require.NoError(t, err)
	return m
}

func newCustomRole(t *testing.T, grants []ModuleGrant) *CustomRole {
	t.Helper()
	cr, err := NewCustomRole(100, "sales-only", "CRM access only", grants)
	require.NoError(t, err)
	require.NoError(t, cr.SetID(7))
	return cr
}

func TestNewMembershipContext_FallbackGrants(t *testing.T) {
	m := reconstructMembership(t, RoleMember, nil)

	ctx := NewMembershipContext(m, nil)

	assert.True(t, ctx.AllowsModuleAction(ModuleCRM, ActionRead))
	assert.False(t, ctx.AllowsModuleAction(ModuleFinance, ActionDelete))
	assert.False(t, ctx.AllowsModuleAction(ModuleSettings, ActionUpdate))
}

func TestNewMembershipContext_CustomRoleOverridesFallback(t *testing.T) {
	roleID := uint(7)
	m := reconstructMembership(t, RoleMember, &roleID)
	cr := newCustomRole(t, []ModuleGrant{
		{Module: ModuleFinance, Actions: []Action{ActionManage}},
	})

	ctx := NewMembershipContext(m, cr)

	// The custom role replaces the fallback set entirely.
	assert.True(t, ctx.AllowsModuleAction(ModuleFinance, ActionDelete))
	assert.False(t, ctx.AllowsModuleAction(ModuleCRM, ActionRead))
}

func TestNewMembershipContext_DanglingCustomRoleFallsBack(t *testing.T) {
	roleID := uint(999)
	m := reconstructMembership(t, RoleAdmin, &roleID)

	// The referenced custom role no longer exists; the coarse role's
	// fallback grants apply.
	ctx := NewMembershipContext(m, nil)

	assert.True(t, ctx.AllowsModuleAction(ModuleCRM, ActionDelete))
	assert.Equal(t, FallbackGrantsFor(RoleAdmin), ctx.Grants)
}

func TestNewMembershipContext_LegacyPermissions(t *testing.T) {
	owner := NewMembershipContext(reconstructMembership(t, RoleOwner, nil), nil)
	admin := NewMembershipContext(reconstructMembership(t, RoleAdmin, nil), nil)
	member := NewMembershipContext(reconstructMembership(t, RoleMember, nil), nil)

	assert.True(t, owner.HasPermission(PermissionManageBilling))
	assert.True(t, admin.HasPermission(PermissionManageMembers))
	assert.False(t, admin.HasPermission(PermissionManageBilling))
	assert.True(t, member.HasPermission(PermissionViewLeads))
	assert.False(t, member.HasPermission(PermissionManageLeads))
}

func TestMembershipContext_OwnerBypass(t *testing.T) {
	roleID := uint(7)
	m := reconstructMembership(t, RoleOwner, &roleID)
	// Even a restrictive custom role cannot limit the owner.
	cr := newCustomRole(t, []ModuleGrant{
		{Module: ModuleCRM, Actions: []Action{ActionRead}},
	})

	ctx := NewMembershipContext(m, cr)

	assert.True(t, ctx.IsOwner())
	assert.True(t, ctx.AllowsModuleAction(ModuleBilling, ActionDelete))
	assert.True(t, ctx.HasPermission(PermissionManageOrg))
	assert.True(t, ctx.HasPermission(Permission("NOT_A_REAL_PERMISSION")))
}

func TestMembershipContext_ManageWildcard(t *testing.T) {
	roleID := uint(7)
	m := reconstructMembership(t, RoleMember, &roleID)
	cr := newCustomRole(t, []ModuleGrant{
		{Module: ModuleUsers, Actions: []Action{ActionManage}},
	})

	ctx := NewMembershipContext(m, cr)

	for _, action := range ConcreteActions {
		assert.True(t, ctx.AllowsModuleAction(ModuleUsers, action), "MANAGE should imply %s", action)
	}
	assert.True(t, ctx.AllowsModuleAction(ModuleUsers, ActionManage))
}

func TestMembershipContext_HasRole(t *testing.T) {
	ctx := NewMembershipContext(reconstructMembership(t, RoleAdmin, nil), nil)

	assert.True(t, ctx.HasRole(RoleAdmin, RoleOwner))
	assert.False(t, ctx.HasRole(RoleOwner))
	assert.True(t, ctx.HasRole(RoleMember, RoleAdmin))
}

func TestFallbackGrantsFor_OwnerCoversEveryModule(t *testing.T) {
	grants := FallbackGrantsFor(RoleOwner)

	covered := make(map[Module]bool)
	for _, g := range grants {
		covered[g.Module] = true
		for _, action := range ConcreteActions {
			assert.True(t, GrantsAllow(grants, g.Module, action))
		}
	}
	for _, m := range AllModules {
		assert.True(t, covered[m], "owner fallback should cover module %s", m)
	}
}

func TestGrantsAllow_UnknownModule(t *testing.T) {
	grants := FallbackGrantsFor(RoleAdmin)
	assert.False(t, GrantsAllow(grants, Module("warehouse"), ActionRead))
}
