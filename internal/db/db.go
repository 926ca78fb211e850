package db

import (
	"database/sql"
	"fmt"
	"log"

	"kantin-be/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

// InitDB opens the database or exits the process.
func InitDB(cfg *config.Config) *sql.DB {
	db, err := NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to init DB: %v", err)
	}

	log.Println("Database connection established")
	return db
}

// NewDatabase opens and pings the database using cfg.DBDriver
// ("postgres" for lib/pq, "pgx" for pgx/stdlib).
func NewDatabase(cfg *config.Config) (*sql.DB, error) {
	driver := cfg.DBDriver
	if driver == "" {
		driver = "postgres"
	}
	return newDatabaseWithDriver(cfg, driver)
}

func newDatabaseWithDriver(cfg *config.Config, driver string) (*sql.DB, error) {
	db, err := sql.Open(driver, buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return db, nil
}

func buildDSN(cfg *config.Config) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)
}
