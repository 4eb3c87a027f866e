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
	apperrors "tessera/internal/shared/errors"
	"tessera/internal/shared/logger"
)

func setupServiceFixture(t *testing.T) (*Service, *gorm.DB) {
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

	return NewService(roleRepo, assignmentRepo, log), gdb
}

func seedSystemRole(t *testing.T, gdb *gorm.DB, name string) uint {
	t.Helper()
	model := &models.PlatformRoleModel{
		Name:           name,
		NormalizedName: name,
		IsSystem:       true,
	}
	require.NoError(t, gdb.Create(model).Error)
	return model.ID
}

func TestService_CreateRole_DuplicateNameCaseInsensitive(t *testing.T) {
	svc, _ := setupServiceFixture(t)
	ctx := context.Background()

	_, err := svc.CreateRole(ctx, CreateRoleCommand{Name: "SUPPORT_ADMIN"})
	require.NoError(t, err)

	_, err = svc.CreateRole(ctx, CreateRoleCommand{Name: "Support_Admin"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
}

func TestService_UpdateRole_SystemRoleForbidden(t *testing.T) {
	svc, gdb := setupServiceFixture(t)
	roleID := seedSystemRole(t, gdb, "super_admin")

	description := "tweaked"
	_, err := svc.UpdateRole(context.Background(), UpdateRoleCommand{
		RoleID:      roleID,
		Description: &description,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsForbiddenError(err))
}

func TestService_DeleteRole_SystemRoleForbidden(t *testing.T) {
	svc, gdb := setupServiceFixture(t)
	roleID := seedSystemRole(t, gdb, "super_admin")

	err := svc.DeleteRole(context.Background(), roleID)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbiddenError(err))

	// The role must still be there afterwards.
	role, getErr := svc.GetRole(context.Background(), roleID)
	require.NoError(t, getErr)
	assert.Equal(t, "super_admin", role.Name)
}

func TestService_DeleteRole_RemovesAssignments(t *testing.T) {
	svc, gdb := setupServiceFixture(t)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, CreateRoleCommand{
		Name:        "auditor",
		Permissions: []string{string(authz.PermAuditView)},
	})
	require.NoError(t, err)
	require.NoError(t, svc.AssignRole(ctx, AssignRoleCommand{UserID: 1, RoleID: role.ID, AssignedBy: 99}))

	require.NoError(t, svc.DeleteRole(ctx, role.ID))

	var count int64
	require.NoError(t, gdb.Model(&models.UserPlatformRoleModel{}).Where("role_id = ?", role.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestService_AssignRole_AlreadyAssigned(t *testing.T) {
	svc, _ := setupServiceFixture(t)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, CreateRoleCommand{Name: "support"})
	require.NoError(t, err)

	cmd := AssignRoleCommand{UserID: 1, RoleID: role.ID, AssignedBy: 99}
	require.NoError(t, svc.AssignRole(ctx, cmd))

	err = svc.AssignRole(ctx, cmd)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
}

func TestService_RevokeRole_NotAssigned(t *testing.T) {
	svc, _ := setupServiceFixture(t)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, CreateRoleCommand{Name: "support"})
	require.NoError(t, err)

	err = svc.RevokeRole(ctx, 1, role.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}
