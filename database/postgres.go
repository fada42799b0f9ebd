package database

import (
	"context"
	"fmt"
	"time"

	"sparkclean/config"
	"sparkclean/models"
	"sparkclean/utils"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global gorm handle used by the postgres store driver.
var DB *gorm.DB

// InitPostgres opens the relational store and runs migrations.
func InitPostgres() error {
	zl := utils.GetLogger()

	logLevel := logger.Warn
	if !config.IsProduction() {
		logLevel = logger.Info
	}
	// gorm writes through zap so SQL logs share the service's sink.
	gormLogger := logger.New(
		zap.NewStdLog(zl.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(config.AppConfig.PostgresDSN), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	if err := Migrate(db); err != nil {
		return err
	}

	DB = db
	zl.Info("Connected to postgres successfully")
	return nil
}

// Migrate creates or updates the tables of the relational store.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.ServiceArea{},
		&models.Cleaner{},
		&models.CleanerArea{},
		&models.WorkingWindow{},
		&models.Booking{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// PingPostgres is a health probe for the relational store.
func PingPostgres(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("postgres not initialized")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// PingMongo is a health probe for the document store.
func PingMongo(ctx context.Context) error {
	if MongoClient == nil {
		return fmt.Errorf("mongo not initialized")
	}
	return MongoClient.Ping(ctx, nil)
}

// ClosePostgres releases the connection pool.
func ClosePostgres() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
