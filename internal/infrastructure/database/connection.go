package database

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tessera/internal/shared/config"
	"tessera/internal/shared/logger"
)

var (
	conn *gorm.DB
	mu   sync.RWMutex
)

func buildDSN(cfg *config.DatabaseConfig) string {
	// parseTime so DATETIME columns scan into time.Time; loc=Local keeps
	// renewal-date arithmetic in the server's timezone.
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=Local",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
}

// Init opens the MySQL connection, configures the pool and verifies it
// with a ping.
func Init(cfg *config.DatabaseConfig) error {
	gl := gormlogger.New(
		&slogWriter{},
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Info,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       buildDSN(cfg),
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:      gl,
		PrepareStmt: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	mu.Lock()
	conn = db
	mu.Unlock()

	logger.Info("database connection established", "database", cfg.Database)
	return nil
}

// Get returns the shared connection. Nil until Init has succeeded.
func Get() *gorm.DB {
	mu.RLock()
	defer mu.RUnlock()
	return conn
}

// Close closes the underlying connection pool.
func Close() error {
	mu.RLock()
	db := conn
	mu.RUnlock()

	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	logger.Info("database connection closed")
	return nil
}

// slogWriter routes gorm's log lines into the application logger at a
// level matching the line's severity, dropping driver handshake noise.
type slogWriter struct{}

func (w *slogWriter) Printf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	lower := strings.ToLower(msg)

	if strings.Contains(lower, "information_schema.schemata") ||
		strings.Contains(lower, "select version()") {
		return
	}

	switch {
	case strings.Contains(lower, "error"):
		logger.Error("database error", "details", msg)
	case strings.Contains(lower, "slow sql"):
		logger.Warn("slow query", "details", msg)
	default:
		logger.Debug("database query", "details", msg)
	}
}
