package repository

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Наборы миграций: у каждого сервиса своя база
const (
	SchemaLinks = "links"
	SchemaTasks = "tasks"
)

// MigrateSQLite накатывает набор миграций schema на открытую базу SQLite
func MigrateSQLite(db *SQLiteDB, schema string) error {
	sourceDriver, err := iofs.New(migrationsFS, path.Join("migrations", "sqlite", schema))
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	dbDriver, err := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	// m.Close() не вызываем: он закроет *sql.DB, которым владеет вызывающий
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// MigratePostgres накатывает набор миграций schema через отдельное соединение pgx
func MigratePostgres(db *PostgresDB, schema string) error {
	sourceDriver, err := iofs.New(migrationsFS, path.Join("migrations", "postgres", schema))
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	databaseURL := "pgx5://" + strings.TrimPrefix(db.dsn, "postgres://")
	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
