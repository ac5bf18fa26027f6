package infrastructure

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	mysqldriver "gorm.io/driver/mysql"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"users-api/internal/adapter/repository"
	"users-api/internal/config"
	"users-api/pkg/logger"
)

// NewDatabase opens the configured database engine, configures the
// connection pool and ensures the users table exists.
func NewDatabase(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	// Configure GORM logger
	gormLogger := logger.NewGormLoggerWithConfig(l, cfg.Logger.SlowQuerySeconds, cfg.Logger.Level)

	dialector, err := openDialector(&cfg.DB)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pool configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime())
	sqlDB.SetConnMaxIdleTime(cfg.DB.ConnMaxIdleTime())

	// Bootstrap the users table on first start
	if err := db.AutoMigrate(&repository.UserSchema{}); err != nil {
		return nil, fmt.Errorf("failed to bootstrap schema: %w", err)
	}

	l.Info("database connected successfully",
		zap.String("engine", cfg.DB.Engine),
		zap.Int("max_open_conns", cfg.DB.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.DB.MaxIdleConns),
		zap.Duration("conn_max_lifetime", cfg.DB.ConnMaxLifetime()),
		zap.Duration("conn_max_idle_time", cfg.DB.ConnMaxIdleTime()),
	)

	return db, nil
}

// openDialector maps the configured engine to its GORM driver.
func openDialector(dbcfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch dbcfg.Engine {
	case config.EnginePostgres:
		return pgdriver.Open(dbcfg.DSN()), nil
	case config.EngineMySQL:
		return mysqldriver.Open(dbcfg.DSN()), nil
	case config.EngineSQLite:
		return sqlite.Open(dbcfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database engine %q", dbcfg.Engine)
	}
}

// CloseDatabase closes the database connection
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
