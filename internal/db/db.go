package db

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var DB *sqlx.DB

// Init connects the package-level handle. Called once at boot by both the
// server and the worker.
func Init(databaseURL string) error {
	var err error
	DB, err = sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Successfully connected to database ...")
	return nil
}

// Close releases the connection pool.
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
