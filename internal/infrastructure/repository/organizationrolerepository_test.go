package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tessera/internal/domain/organization"
	"tessera/internal/infrastructure/persistence/models"
	"tessera/internal/shared/logger"
)

func setupRoleTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.OrganizationRoleModel{}, &models.MembershipModel{})
	require.NoError(t, err)

	return db
}

func TestOrganizationRoleRepository_GrantsRoundTrip(t *testing.T) {
	db := setupRoleTestDB(t)
	repo := NewOrganizationRoleRepository(db, logger.NewLogger())
	ctx := context.Background()

	grants := []organization.ModuleGrant{
		{Module: organization.ModuleCRM, Actions: []organization.Action{organization.ActionRead, organization.ActionUpdate}},
		{Module: organization.ModuleFinance, Actions: []organization.Action{organization.ActionManage}},
	}
	role, err := organization.NewCustomRole(1, "sales-lead", "CRM plus finance oversight", grants)
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, role))
	assert.NotZero(t, role.ID())

	found, err := repo.GetByID(ctx, role.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "sales-lead", found.Name())
	require.Len(t, found.Grants(), 2)
	assert.Equal(t, organization.ModuleCRM, found.Grants()[0].Module)
	assert.ElementsMatch(t,
		[]organization.Action{organization.ActionRead, organization.ActionUpdate},
		found.Grants()[0].Actions)
}

func TestOrganizationRoleRepository_GetByOrgAndName(t *testing.T) {
	db := setupRoleTestDB(t)
	repo := NewOrganizationRoleRepository(db, logger.NewLogger())
	ctx := context.Background()

	role, err := organization.NewCustomRole(1, "auditor", "", []organization.ModuleGrant{
		{Module: organization.ModuleReports, Actions: []organization.Action{organization.ActionRead}},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, role))

	found, err := repo.GetByOrgAndName(ctx, 1, "auditor")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, role.ID(), found.ID())

	// Same name in another organization is a different namespace.
	other, err := repo.GetByOrgAndName(ctx, 2, "auditor")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestOrganizationRoleRepository_Update(t *testing.T) {
	db := setupRoleTestDB(t)
	repo := NewOrganizationRoleRepository(db, logger.NewLogger())
	ctx := context.Background()

	role, err := organization.NewCustomRole(1, "viewer", "", []organization.ModuleGrant{
		{Module: organization.ModuleCRM, Actions: []organization.Action{organization.ActionRead}},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, role))

	err = role.Update("viewer", "read-only CRM and reports", []organization.ModuleGrant{
		{Module: organization.ModuleCRM, Actions: []organization.Action{organization.ActionRead}},
		{Module: organization.ModuleReports, Actions: []organization.Action{organization.ActionRead}},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, role))

	found, err := repo.GetByID(ctx, role.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "read-only CRM and reports", found.Description())
	assert.Len(t, found.Grants(), 2)
}

func TestMembershipRepository_Lifecycle(t *testing.T) {
	db := setupRoleTestDB(t)
	repo := NewMembershipRepository(db, logger.NewLogger())
	ctx := context.Background()

	membership, err := organization.NewMembership(10, 1, organization.RoleMember)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, membership))
	assert.NotZero(t, membership.ID())

	found, err := repo.GetByUserAndOrg(ctx, 10, 1)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, organization.RoleMember, found.Role())
	assert.Nil(t, found.CustomRoleID())

	missing, err := repo.GetByUserAndOrg(ctx, 10, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)

	count, err := repo.CountByOrganization(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Delete(ctx, membership.ID()))
	count, err = repo.CountByOrganization(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)
}
