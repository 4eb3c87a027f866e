package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tessera/internal/domain/authz"
	"tessera/internal/infrastructure/persistence/models"
	"tessera/internal/infrastructure/repository"
	"tessera/internal/shared/logger"
)

func setupResolverFixture(t *testing.T) (*Service, *Resolver) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = gdb.AutoMigrate(
		&models.PlatformRoleModel{},
		&models.PlatformRolePermissionModel{},
		&models.UserPlatformRoleModel{},
	)
	require.NoError(t, err)

	log := logger.NewLogger()
	roleRepo := repository.NewPlatformRoleRepository(gdb, log)
	assignmentRepo := repository.NewAssignmentRepository(gdb, log)

	return NewService(roleRepo, assignmentRepo, log), NewResolver(roleRepo, assignmentRepo, log)
}

func createRole(t *testing.T, svc *Service, name string, permissions ...string) uint {
	t.Helper()
	role, err := svc.CreateRole(context.Background(), CreateRoleCommand{
		Name:        name,
		Permissions: permissions,
	})
	require.NoError(t, err)
	return role.ID
}

func TestResolver_Has_SuperAdminBypass(t *testing.T) {
	_, resolver := setupResolverFixture(t)

	// No roles assigned at all; the global role alone grants everything.
	ok, err := resolver.Has(context.Background(), 1, authz.GlobalRoleSuperAdmin, authz.PermOrgDelete)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResolver_Has_NoAssignments(t *testing.T) {
	_, resolver := setupResolverFixture(t)

	ok, err := resolver.Has(context.Background(), 1, authz.GlobalRoleAdmin, authz.PermOrgView)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolver_Has_UnionAcrossRoles(t *testing.T) {
	svc, resolver := setupResolverFixture(t)
	ctx := context.Background()

	viewerID := createRole(t, svc, "org viewer", string(authz.PermOrgView))
	billingID := createRole(t, svc, "billing", string(authz.PermSubscriptionView), string(authz.PermSubscriptionManage))

	require.NoError(t, svc.AssignRole(ctx, AssignRoleCommand{UserID: 1, RoleID: viewerID, AssignedBy: 99}))
	require.NoError(t, svc.AssignRole(ctx, AssignRoleCommand{UserID: 1, RoleID: billingID, AssignedBy: 99}))

	for _, perm := range []authz.PermissionID{authz.PermOrgView, authz.PermSubscriptionView, authz.PermSubscriptionManage} {
		ok, err := resolver.Has(ctx, 1, authz.GlobalRoleAdmin, perm)
		require.NoError(t, err)
		assert.True(t, ok, "expected permission %s", perm)
	}

	ok, err := resolver.Has(ctx, 1, authz.GlobalRoleAdmin, authz.PermUserManage)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolver_ResolvePermissions_Deduplicated(t *testing.T) {
	svc, resolver := setupResolverFixture(t)
	ctx := context.Background()

	firstID := createRole(t, svc, "first", string(authz.PermOrgView), string(authz.PermUserView))
	secondID := createRole(t, svc, "second", string(authz.PermOrgView))

	require.NoError(t, svc.AssignRole(ctx, AssignRoleCommand{UserID: 1, RoleID: firstID, AssignedBy: 99}))
	require.NoError(t, svc.AssignRole(ctx, AssignRoleCommand{UserID: 1, RoleID: secondID, AssignedBy: 99}))

	permissions, err := resolver.ResolvePermissions(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []authz.PermissionID{authz.PermOrgView, authz.PermUserView}, permissions)
}

func TestResolver_Has_AfterRevoke(t *testing.T) {
	svc, resolver := setupResolverFixture(t)
	ctx := context.Background()

	roleID := createRole(t, svc, "auditor", string(authz.PermAuditView))
	require.NoError(t, svc.AssignRole(ctx, AssignRoleCommand{UserID: 1, RoleID: roleID, AssignedBy: 99}))

	ok, err := resolver.Has(ctx, 1, authz.GlobalRoleSupport, authz.PermAuditView)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.RevokeRole(ctx, 1, roleID))

	ok, err = resolver.Has(ctx, 1, authz.GlobalRoleSupport, authz.PermAuditView)
	require.NoError(t, err)
	assert.False(t, ok)
}
