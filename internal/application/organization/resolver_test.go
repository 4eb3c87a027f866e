package organization

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tessera/internal/domain/organization"
	"tessera/internal/infrastructure/persistence/models"
	"tessera/internal/infrastructure/repository"
	apperrors "tessera/internal/shared/errors"
	"tessera/internal/shared/id"
	"tessera/internal/shared/logger"
)

type resolverFixture struct {
	db             *gorm.DB
	resolver       *Resolver
	orgRepo        organization.Repository
	membershipRepo organization.MembershipRepository
	customRoleRepo organization.CustomRoleRepository
}

func setupResolverFixture(t *testing.T) *resolverFixture {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = gdb.AutoMigrate(
		&models.OrganizationModel{},
		&models.MembershipModel{},
		&models.OrganizationRoleModel{},
	)
	require.NoError(t, err)

	log := logger.NewLogger()
	orgRepo := repository.NewOrganizationRepository(gdb, log)
	membershipRepo := repository.NewMembershipRepository(gdb, log)
	customRoleRepo := repository.NewOrganizationRoleRepository(gdb, log)

	return &resolverFixture{
		db:             gdb,
		resolver:       NewResolver(orgRepo, membershipRepo, customRoleRepo, log),
		orgRepo:        orgRepo,
		membershipRepo: membershipRepo,
		customRoleRepo: customRoleRepo,
	}
}

func (f *resolverFixture) createOrg(t *testing.T, name string, ownerID uint) *organization.Organization {
	t.Helper()
	org, err := organization.NewOrganization(id.MustGenerateWithPrefix(id.PrefixOrganization, id.DefaultLength), name, ownerID)
	require.NoError(t, err)
	require.NoError(t, f.orgRepo.Create(context.Background(), org))
	return org
}

func (f *resolverFixture) addMember(t *testing.T, userID, orgID uint, role organization.Role) *organization.Membership {
	t.Helper()
	m, err := organization.NewMembership(userID, orgID, role)
	require.NoError(t, err)
	require.NoError(t, f.membershipRepo.Create(context.Background(), m))
	return m
}

func TestResolver_Resolve_OrgNotFound(t *testing.T) {
	f := setupResolverFixture(t)

	_, _, err := f.resolver.Resolve(context.Background(), 1, "org_missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestResolver_Resolve_NotAMember(t *testing.T) {
	f := setupResolverFixture(t)
	org := f.createOrg(t, "Acme", 1)
	f.addMember(t, 1, org.ID(), organization.RoleOwner)

	_, _, err := f.resolver.Resolve(context.Background(), 2, org.SID())
	require.Error(t, err)
	assert.True(t, apperrors.IsForbiddenError(err))
}

func TestResolver_Resolve_OwnerBypassesModuleChecks(t *testing.T) {
	f := setupResolverFixture(t)
	org := f.createOrg(t, "Acme", 1)
	f.addMember(t, 1, org.ID(), organization.RoleOwner)

	mc, resolved, err := f.resolver.Resolve(context.Background(), 1, org.SID())
	require.NoError(t, err)
	require.NotNil(t, mc)
	assert.Equal(t, org.ID(), resolved.ID())

	assert.True(t, mc.IsOwner())
	for _, module := range organization.AllModules {
		assert.True(t, mc.AllowsModuleAction(module, organization.ActionDelete),
			"owner should pass %s", module)
	}
}

func TestResolver_Resolve_MemberWithCustomRole(t *testing.T) {
	f := setupResolverFixture(t)
	ctx := context.Background()
	org := f.createOrg(t, "Acme", 1)

	role, err := organization.NewCustomRole(org.ID(), "crm-only", "", []organization.ModuleGrant{
		{Module: organization.ModuleCRM, Actions: []organization.Action{organization.ActionRead, organization.ActionCreate}},
	})
	require.NoError(t, err)
	require.NoError(t, f.customRoleRepo.Create(ctx, role))

	m := f.addMember(t, 2, org.ID(), organization.RoleMember)
	require.NoError(t, m.AssignCustomRole(role.ID()))
	require.NoError(t, f.membershipRepo.Update(ctx, m))

	mc, _, err := f.resolver.Resolve(ctx, 2, org.SID())
	require.NoError(t, err)

	assert.True(t, mc.AllowsModuleAction(organization.ModuleCRM, organization.ActionRead))
	assert.True(t, mc.AllowsModuleAction(organization.ModuleCRM, organization.ActionCreate))
	assert.False(t, mc.AllowsModuleAction(organization.ModuleCRM, organization.ActionDelete))
	assert.False(t, mc.AllowsModuleAction(organization.ModuleFinance, organization.ActionRead))
}

func TestResolver_Resolve_DanglingCustomRoleFallsBack(t *testing.T) {
	f := setupResolverFixture(t)
	ctx := context.Background()
	org := f.createOrg(t, "Acme", 1)

	role, err := organization.NewCustomRole(org.ID(), "doomed", "", []organization.ModuleGrant{
		{Module: organization.ModuleFinance, Actions: []organization.Action{organization.ActionManage}},
	})
	require.NoError(t, err)
	require.NoError(t, f.customRoleRepo.Create(ctx, role))

	m := f.addMember(t, 2, org.ID(), organization.RoleMember)
	require.NoError(t, m.AssignCustomRole(role.ID()))
	require.NoError(t, f.membershipRepo.Update(ctx, m))

	require.NoError(t, f.customRoleRepo.Delete(ctx, role.ID()))

	mc, _, err := f.resolver.Resolve(ctx, 2, org.SID())
	require.NoError(t, err)

	// Fallback to the coarse MEMBER grants, not the deleted role's.
	assert.False(t, mc.AllowsModuleAction(organization.ModuleFinance, organization.ActionManage))
	fallback := organization.FallbackGrantsFor(organization.RoleMember)
	assert.Equal(t, fallback, mc.Grants)
}

func TestResolver_Resolve_CustomRoleFromOtherOrgIgnored(t *testing.T) {
	f := setupResolverFixture(t)
	ctx := context.Background()
	orgA := f.createOrg(t, "Acme", 1)
	orgB := f.createOrg(t, "Globex", 1)

	foreignRole, err := organization.NewCustomRole(orgB.ID(), "foreign", "", []organization.ModuleGrant{
		{Module: organization.ModuleSettings, Actions: []organization.Action{organization.ActionManage}},
	})
	require.NoError(t, err)
	require.NoError(t, f.customRoleRepo.Create(ctx, foreignRole))

	m := f.addMember(t, 2, orgA.ID(), organization.RoleMember)
	require.NoError(t, m.AssignCustomRole(foreignRole.ID()))
	require.NoError(t, f.membershipRepo.Update(ctx, m))

	mc, _, err := f.resolver.Resolve(ctx, 2, orgA.SID())
	require.NoError(t, err)

	assert.False(t, mc.AllowsModuleAction(organization.ModuleSettings, organization.ActionManage))
}
