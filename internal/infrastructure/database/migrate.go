package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/internal/config"
	"github.com/fastygo/tasktracker/migrations"
)

// RunMigrations executes DB migrations when enabled in configuration.
func RunMigrations(cfg *config.Config, logger *zap.Logger) error {
	if cfg == nil || !cfg.Migrations.Enabled {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var err error
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		err = MigratePostgres(cfg.Database.URL, cfg.Database.Name)
	case config.DriverSQLite:
		err = MigrateSQLite(cfg.Database.SQLitePath)
	default:
		err = fmt.Errorf("unsupported driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return err
	}

	logger.Info("database migrations applied", zap.String("driver", cfg.Database.Driver))
	return nil
}

// MigratePostgres applies the embedded Postgres migrations over a dedicated connection.
func MigratePostgres(dsn, name string) error {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return err
	}
	return up(migrations.Postgres, "postgres", name, driver)
}

// MigrateSQLite applies the embedded SQLite migrations to the file at path.
func MigrateSQLite(path string) error {
	sqlDB, err := OpenSQLite(path)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	driver, err := sqlitemigrate.WithInstance(sqlDB, &sqlitemigrate.Config{})
	if err != nil {
		return err
	}
	return up(migrations.SQLite, "sqlite", "sqlite", driver)
}

func up(fsys fs.FS, dir, name string, driver migratedb.Driver) error {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", src, name, driver)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
