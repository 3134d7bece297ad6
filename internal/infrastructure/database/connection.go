package database

import (
	"fmt"
	"os"
	"time"

	"careportal/config"
	"careportal/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Seed accounts created when the store is empty, so a fresh portal is usable
// immediately: one member and one doctor.
const (
	SeedMemberEmail = "member@example.com"
	SeedDoctorEmail = "doctor@example.com"

	seedMemberPassword = "password123"
	seedDoctorPassword = "doctor123"
)

// Open connects to the configured store, migrates the schema and seeds an
// empty database. For the sqlite driver an unreadable or corrupt database
// file is quarantined and replaced by a fresh seeded one; that fallback is
// logged as a warning but never surfaced as an error.
func Open(cfg config.StorageConfig, maxMessageLength int, log *logrus.Logger) (*gorm.DB, error) {
	if cfg.Driver == "postgres" {
		return openPostgres(cfg, maxMessageLength, log)
	}
	return openSQLite(cfg, maxMessageLength, log)
}

func openSQLite(cfg config.StorageConfig, maxMessageLength int, log *logrus.Logger) (*gorm.DB, error) {
	path := cfg.Path
	if path == "" {
		path = "careportal.db"
	}

	db, err := initSQLite(path)
	if err == nil {
		if seedErr := seed(db, maxMessageLength, log); seedErr != nil {
			return nil, seedErr
		}
		return db, nil
	}

	// The file exists but cannot be used as a database. Quarantine it and
	// start over with seed data so the portal stays usable; the warning is
	// the caller's signal that prior data may have been lost.
	quarantine := fmt.Sprintf("%s.corrupt-%d", path, time.Now().Unix())
	log.Warnf("Store at %s is unreadable, reinitializing with seed data (damaged file moved to %s): %+v", path, quarantine, err)
	if renameErr := os.Rename(path, quarantine); renameErr != nil && !os.IsNotExist(renameErr) {
		return nil, fmt.Errorf("failed to quarantine damaged store: %w", renameErr)
	}

	db, err = initSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("failed to reinitialize store: %w", err)
	}
	if err := seed(db, maxMessageLength, log); err != nil {
		return nil, err
	}
	return db, nil
}

func initSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func openPostgres(cfg config.StorageConfig, maxMessageLength int, log *logrus.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := migrate(db); err != nil {
		return nil, err
	}
	if err := seed(db, maxMessageLength, log); err != nil {
		return nil, err
	}

	log.Info("Successfully connected to PostgreSQL database")

	return db, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.LoginHistoryEntry{},
		&entity.Conversation{},
		&entity.Message{},
		&entity.Medication{},
		&entity.DailyProgress{},
		&entity.Settings{},
	)
}

// seed creates the default accounts and settings row when the store holds no
// users, matching the structural check a loaded store must pass.
func seed(db *gorm.DB, maxMessageLength int, log *logrus.Logger) error {
	var userCount int64
	if err := db.Model(&entity.User{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("failed to inspect store: %w", err)
	}

	if userCount == 0 {
		now := time.Now()
		memberHash, err := bcrypt.GenerateFromPassword([]byte(seedMemberPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		doctorHash, err := bcrypt.GenerateFromPassword([]byte(seedDoctorPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		seedUsers := []entity.User{
			{
				Email:        SeedMemberEmail,
				PasswordHash: string(memberHash),
				UserType:     entity.UserTypeMember,
				Name:         "John Doe",
				CreatedAt:    now,
				LastLogin:    now,
			},
			{
				Email:        SeedDoctorEmail,
				PasswordHash: string(doctorHash),
				UserType:     entity.UserTypeDoctor,
				Name:         "Dr. Jane Smith",
				CreatedAt:    now,
				LastLogin:    now,
			},
		}
		if err := db.Create(&seedUsers).Error; err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}
		log.Info("Seeded store with default member and doctor accounts")
	}

	var settingsCount int64
	if err := db.Model(&entity.Settings{}).Count(&settingsCount).Error; err != nil {
		return err
	}
	if settingsCount == 0 {
		if err := db.Create(entity.DefaultSettings(maxMessageLength)).Error; err != nil {
			return fmt.Errorf("failed to seed settings: %w", err)
		}
	}

	return nil
}
