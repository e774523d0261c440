package database

import (
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// RunMigrations applies pending SQL migrations from migrationsPath.
// Already-applied versions are skipped, so it runs on every startup.
// golang-migrate wants a database/sql handle, which is why this does
// not go through the pgx pool.
func RunMigrations(db *sql.DB, migrationsPath string, logger *zap.Logger) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("Failed to close migration source", zap.Error(srcErr))
		}
		if dbErr != nil {
			logger.Warn("Failed to close migration database", zap.Error(dbErr))
		}
	}()

	switch err := m.Up(); err {
	case nil:
		version, _, _ := m.Version()
		logger.Info("Database schema migrated", zap.Uint("version", version))
		return nil
	case migrate.ErrNoChange:
		logger.Info("Database schema up to date")
		return nil
	default:
		return fmt.Errorf("failed to run migrations: %w", err)
	}
}
