package migration

import (
	"fmt"

	"gorm.io/gorm"

	"tessera/internal/infrastructure/persistence/models"
	"tessera/internal/shared/logger"
)

// AutoMigrateModels returns every persistence model in dependency order.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.OrganizationModel{},
		&models.MembershipModel{},
		&models.OrganizationRoleModel{},
		&models.PlatformRoleModel{},
		&models.PlatformRolePermissionModel{},
		&models.UserPlatformRoleModel{},
		&models.PlanModel{},
		&models.SubscriptionModel{},
		&models.SubscriptionHistoryModel{},
		&models.AuditLogModel{},
		&models.LeadModel{},
		&models.FinanceEntryModel{},
	}
}

// GormAutoMigrateStrategy migrates the schema from the model structs themselves.
// Intended for development and tests only.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy() Strategy {
	return &GormAutoMigrateStrategy{
		logger: logger.NewLogger().With("component", "migration.gorm"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB, models ...interface{}) error {
	if len(models) == 0 {
		models = AutoMigrateModels()
	}

	s.logger.Infow("starting gorm auto-migration", "models_count", len(models))

	if err := db.AutoMigrate(models...); err != nil {
		s.logger.Errorw("auto-migration failed", "error", err)
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}

	s.logger.Infow("auto-migration completed successfully")
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
