// Package datastore opens and migrates the reportrack database.
package datastore

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"

	"github.com/firedock/reportrack-backend/internal/conf"
	"github.com/firedock/reportrack-backend/internal/datastore/entities"
)

// Manager owns the gorm connection for the service.
type Manager struct {
	db *gorm.DB
}

// Open connects to the configured database and runs schema migration.
func Open(settings conf.DBSettings) (*Manager, error) {
	var dialector gorm.Dialector
	switch settings.Driver {
	case "sqlite":
		dialector = sqlite.Open(settings.Path + "?_foreign_keys=ON")
	case "mysql":
		dialector = mysql.Open(settings.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", settings.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gorm_logger.Default.LogMode(gorm_logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", settings.Driver, err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return &Manager{db: db}, nil
}

// Migrate creates or updates the schema for all entities.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entities.Customer{},
		&entities.Property{},
		&entities.ServiceType{},
		&entities.User{},
		&entities.Alarm{},
		&entities.ServiceRecord{},
		&entities.AlarmLog{},
		&entities.EmailLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// DB returns the underlying gorm handle.
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close releases the database connection.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}
