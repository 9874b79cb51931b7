package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	bookModel "perpustakaanku_backend/internals/features/library/books/model"
	borrowerModel "perpustakaanku_backend/internals/features/library/borrowers/model"
	borrowingModel "perpustakaanku_backend/internals/features/library/borrowings/model"
)

var DB *gorm.DB

// Open dials the given DSN and returns an injected handle. Tests and
// one-off tooling use this instead of the package-level DB.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // plays well with PgBouncer transaction pooling
	}), &gorm.Config{})
}

func ConnectDB() {
	log.Println("🔌 Connecting to PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=perpustakaanku&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := Open(dsn)
	if err != nil {
		log.Fatalf("❌ DB connect failed: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate keeps the three library tables in sync with the models.
func Migrate() {
	if err := MigrateOn(DB); err != nil {
		log.Fatalf("❌ migration failed: %v", err)
	}
	log.Println("✅ schema migrated.")
}

func MigrateOn(db *gorm.DB) error {
	return db.AutoMigrate(
		&bookModel.BookModel{},
		&borrowerModel.BorrowerModel{},
		&borrowingModel.BorrowingModel{},
	)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
