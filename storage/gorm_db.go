package storage

import (
	"fmt"
	"log"
	"os"
	"time"

	"backend/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var gormDB *gorm.DB

// InitGormDB initializes the GORM connection. GORM owns schema migration;
// the query paths use the raw sql.DB from InitDB.
func InitGormDB() *gorm.DB {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port)

	var err error
	gormDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Fatal("Failed to connect to database with GORM:", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB:", err)
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := AutoMigrateModels(gormDB); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}

	return gormDB
}

// GetGormDB returns the GORM database instance
func GetGormDB() *gorm.DB {
	return gormDB
}

// AutoMigrateModels creates or updates every table the application owns.
func AutoMigrateModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.RoleGorm{},
		&models.UserGorm{},
		&models.SessionGorm{},
		&models.ActivityLogGorm{},
		&models.VendorGorm{},
		&models.VendorAliasGorm{},
		&models.ClientGorm{},
		&models.StaffGorm{},
		&models.PurchaseOrderGorm{},
		&models.POLineItemGorm{},
		&models.ShipmentGorm{},
		&models.InspectionGorm{},
		&models.QualityTestGorm{},
		&models.ComplianceAlertGorm{},
		&models.CapacityAllocationGorm{},
		&models.ProjectionGorm{},
		&models.ProjectionHistoryGorm{},
		&models.ProjectionLockGorm{},
	)
}
