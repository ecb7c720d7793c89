package db

import (
	"library_system/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"

	"gorm.io/driver/postgres" // Postgres driver for GORM
	"gorm.io/gorm"            // GORM ORM library
)

// AutoMigrate creates tables, foreign keys, and integrity constraints for
// every model on an already open connection. Shared by cmd/migrate and
// the test harness.
func AutoMigrate(gdb *gorm.DB) error {
	// Explicit join model so categorization rows carry a composite key.
	if err := gdb.SetupJoinTable(&domain.Book{}, "Categories", &domain.Categorization{}); err != nil {
		return err
	}
	if err := gdb.AutoMigrate(
		&domain.User{},
		&domain.Category{},
		&domain.Book{},
		&domain.Borrowing{},
		&domain.Review{},
	); err != nil {
		return err
	}
	// At most one active loan per book: uniqueness over book_id restricted
	// to rows where returned_at is still null. A racing insert loses with a
	// duplicate-key error, which handlers map to "is already borrowed".
	return gdb.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_borrowings_active_book
		 ON borrowings (book_id) WHERE returned_at IS NULL`,
	).Error
}

// Migrate opens the database and applies the schema (cmd/migrate entry).
func Migrate(dsn string) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Fatal if connection fails
	}
	if err := AutoMigrate(gdb); err != nil {
		logrus.Fatalf("migration failed: %v", err) // Fatal if migration fails
	}
	logrus.Info("Migration completed.")
}
