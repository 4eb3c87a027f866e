package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tessera/internal/infrastructure/persistence/models"
)

func TestNewManager_StrategySelection(t *testing.T) {
	tests := []struct {
		environment string
		wantName    string
	}{
		{"development", "gorm_auto_migrate"},
		{"test", "golang_migrate"},
		{"production", "golang_migrate"},
		{"staging", "gorm_auto_migrate"},
		{"PRODUCTION", "golang_migrate"},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			manager := NewManager(tt.environment)
			assert.Equal(t, tt.wantName, manager.GetStrategy().GetName())
		})
	}
}

func TestGormAutoMigrateStrategy_Migrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	strategy := NewGormAutoMigrateStrategy()
	require.NoError(t, strategy.Migrate(db, &models.UserModel{}, &models.OrganizationModel{}))

	assert.True(t, db.Migrator().HasTable("users"))
	assert.True(t, db.Migrator().HasTable("organizations"))
}

func TestGormAutoMigrateStrategy_MigratesAllModelsByDefault(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	strategy := NewGormAutoMigrateStrategy()
	require.NoError(t, strategy.Migrate(db))

	for _, table := range []string{
		"users", "organizations", "memberships", "organization_roles",
		"platform_roles", "platform_role_permissions", "user_platform_roles",
		"plans", "subscriptions", "subscription_histories",
		"audit_logs", "leads", "finance_entries",
	} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestGenerator_CreateMigration(t *testing.T) {
	dir := t.TempDir()

	generator := NewGenerator(dir)
	require.NoError(t, generator.CreateMigration("add_widgets"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var upFile, downFile string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFile = entry.Name()
		}
		if strings.HasSuffix(entry.Name(), ".down.sql") {
			downFile = entry.Name()
		}
	}
	assert.Contains(t, upFile, "_add_widgets.up.sql")
	assert.Contains(t, downFile, "_add_widgets.down.sql")

	content, err := os.ReadFile(filepath.Join(dir, upFile))
	require.NoError(t, err)
	assert.Contains(t, string(content), "add_widgets")
}

func TestGooseStrategy_Create(t *testing.T) {
	dir := t.TempDir()

	strategy := NewGooseStrategy(dir)
	gooseStrategy, ok := strategy.(*GooseStrategy)
	require.True(t, ok)
	assert.Equal(t, "goose", strategy.GetName())

	require.NoError(t, gooseStrategy.Create("add_widgets"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "add_widgets")

	content, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(content), "+goose Up")
}
