package db

import (
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"holdex/internal/errors"
)

// MigrateDatabase applies all available migrations to the database
func (db *DB) MigrateDatabase() error {
	driver, err := postgres.WithInstance(db.Conn, &postgres.Config{})
	if err != nil {
		return errors.NewDatabaseError(fmt.Errorf("failed to create database driver: %w", err))
	}

	sourceURL := fmt.Sprintf("file://%s", db.Config.MigrationsPath)
	m, err := migrate.NewWithDatabaseInstance(
		sourceURL,
		db.Config.Database.Name,
		driver,
	)
	if err != nil {
		return errors.NewDatabaseError(fmt.Errorf("failed to create migration instance: %w", err))
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.NewDatabaseError(fmt.Errorf("failed to apply migrations: %w", err))
	}

	return nil
}
