package db

import (
	"github.com/arch-spatula/jmc/internal/app/model"
	"github.com/arch-spatula/jmc/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every persisted model in migration order
func Models() []interface{} {
	return []interface{}{
		&model.Restaurant{},
		&model.Menu{},
	}
}

// Migrate runs database migrations on the global connection
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB runs migrations on the given connection
func MigrateDB(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
