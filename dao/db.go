package dao

import (
	"bealive-agent-backend/model"
	"errors"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

var (
	ErrActivityNotFound     = errors.New("activity not found")
	ErrActivityFinished     = errors.New("activity already finished")
	ErrActivityNotOpen      = errors.New("activity is not open for reservations")
	ErrDuplicateReservation = errors.New("reservation already exists")
	ErrOwnActivity          = errors.New("hosts cannot reserve their own activity")
	ErrReservationNotFound  = errors.New("no pending reservation for that user")
	ErrNotEligible          = errors.New("review is not allowed for this activity")
	ErrAlreadyReviewed      = errors.New("review already exists")
	ErrUserNotFound         = errors.New("user not found")
)

// Init opens the MySQL database and migrates the schema.
func Init(dsn string) error {
	db, err := Open(mysql.Open(dsn), logger.Warn)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open connects through dialector with duplicate-key translation enabled and migrates the schema.
func Open(dialector gorm.Dialector, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Activity{},
		&model.Reservation{},
		&model.ActivityReview{},
		&model.UserReview{},
		&model.Session{},
		&model.Message{},
		&model.CompanyDocument{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
