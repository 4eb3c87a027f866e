package organization

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMembership(t *testing.T, userID uint, role Role) *Membership {
	t.Helper()
	m, err := NewMembership(userID, 100, role)
	require.NoError(t, err)
	return m
}

func TestNewMembership(t *testing.T) {
	m := newMembership(t, 10, RoleMember)

	assert.Equal(t, uint(10), m.UserID())
	assert.Equal(t, uint(100), m.OrganizationID())
	assert.Equal(t, RoleMember, m.Role())
	assert.Nil(t, m.CustomRoleID())
}

func TestNewMembership_InvalidInput(t *testing.T) {
	_, err := NewMembership(0, 100, RoleMember)
	assert.Error(t, err)

	_, err = NewMembership(10, 0, RoleMember)
	assert.Error(t, err)

	_, err = NewMembership(10, 100, Role("SUPERVISOR"))
	assert.Error(t, err)
}

func TestChangeRole(t *testing.T) {
	m := newMembership(t, 10, RoleMember)

	require.NoError(t, m.ChangeRole(RoleAdmin))
	assert.Equal(t, RoleAdmin, m.Role())
}

func TestChangeRole_OwnerIsStructural(t *testing.T) {
	m := newMembership(t, 10, RoleAdmin)

	// Ownership moves via transfer, not role change.
	assert.Error(t, m.ChangeRole(RoleOwner))

	owner := newMembership(t, 11, RoleOwner)
	assert.Error(t, owner.ChangeRole(RoleAdmin))
}

func TestAssignCustomRole(t *testing.T) {
	m := newMembership(t, 10, RoleMember)

	require.NoError(t, m.AssignCustomRole(7))
	require.NotNil(t, m.CustomRoleID())
	assert.Equal(t, uint(7), *m.CustomRoleID())

	m.ClearCustomRole()
	assert.Nil(t, m.CustomRoleID())
}

func TestTransferOwnership(t *testing.T) {
	now := time.Now()
	from, err := ReconstructMembership(1, 10, 100, RoleOwner, nil, now, now)
	require.NoError(t, err)
	to, err := ReconstructMembership(2, 11, 100, RoleMember, nil, now, now)
	require.NoError(t, err)

	require.NoError(t, TransferOwnership(from, to))

	assert.Equal(t, RoleAdmin, from.Role())
	assert.Equal(t, RoleOwner, to.Role())
}

func TestTransferOwnership_Invalid(t *testing.T) {
	now := time.Now()
	owner, err := ReconstructMembership(1, 10, 100, RoleOwner, nil, now, now)
	require.NoError(t, err)
	otherOrg, err := ReconstructMembership(2, 11, 200, RoleMember, nil, now, now)
	require.NoError(t, err)

	// Different organizations.
	assert.Error(t, TransferOwnership(owner, otherOrg))

	// Source is not the owner.
	admin, err := ReconstructMembership(3, 12, 100, RoleAdmin, nil, now, now)
	require.NoError(t, err)
	member, err := ReconstructMembership(4, 13, 100, RoleMember, nil, now, now)
	require.NoError(t, err)
	assert.Error(t, TransferOwnership(admin, member))

	// Target is already the owner.
	assert.Error(t, TransferOwnership(owner, owner))
}

func TestCustomRole_NormalizesGrants(t *testing.T) {
	cr, err := NewCustomRole(100, "mixed", "", []ModuleGrant{
		{Module: ModuleCRM, Actions: []Action{ActionRead, ActionRead}},
		{Module: Module("warehouse"), Actions: []Action{ActionRead}},
		{Module: ModuleFinance, Actions: nil},
	})
	require.NoError(t, err)

	assert.True(t, cr.Allows(ModuleCRM, ActionRead))
	assert.False(t, cr.Allows(Module("warehouse"), ActionRead))
	assert.False(t, cr.Allows(ModuleFinance, ActionRead))
}

func TestCustomRole_SystemRoleImmutable(t *testing.T) {
	cr, err := NewSystemCustomRole(100, "readonly", "", []ModuleGrant{
		{Module: ModuleCRM, Actions: []Action{ActionRead}},
	})
	require.NoError(t, err)

	err = cr.Update("renamed", "", []ModuleGrant{{Module: ModuleCRM, Actions: []Action{ActionManage}}})
	assert.Error(t, err)
}
