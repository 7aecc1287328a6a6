package database

import (
	"log"

	"rentsplit-backend/config"
	"rentsplit-backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database and migrates the schema. The returned handle is
// passed into every service instead of living in a package global, so tests
// and main own its lifecycle.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	log.Println("✅ Database connected successfully")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("✅ Database migrated successfully")
	return db, nil
}

// Migrate auto-migrates all models. Split out so tests can run it against
// an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Household{},
		&models.HouseholdMember{},
		&models.Expense{},
		&models.ExpenseSplit{},
		&models.Activity{},
	)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	sqlDB.Close()
}
