package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"notekeeper/pkg/logger"
)

// Константы для сообщений об ошибках миграций.
const (
	ErrCreateMigrationInstance = "failed to create migration instance"
	ErrApplyMigrations         = "failed to apply migrations"
	ErrRollbackMigrations      = "failed to roll back migrations"
)

// MigrateDSN применяет все новые миграции из указанного пути.
func MigrateDSN(ctx context.Context, dsn string, migrationsPath string) error {
	return runMigrations(ctx, dsn, migrationsPath, (*migrate.Migrate).Up, ErrApplyMigrations, LogMigrationsApplied)
}

// RollbackDSN откатывает все миграции из указанного пути.
func RollbackDSN(ctx context.Context, dsn string, migrationsPath string) error {
	return runMigrations(ctx, dsn, migrationsPath, (*migrate.Migrate).Down, ErrRollbackMigrations, LogMigrationsRolledBack)
}

func runMigrations(
	ctx context.Context,
	dsn, migrationsPath string,
	step func(*migrate.Migrate) error,
	errMsg, okMsg string,
) error {
	log := logger.Log(ctx)

	m, err := migrate.New(migrationsPath, dsn)
	if err != nil {
		log.Error(ctx, ErrCreateMigrationInstance, zap.Error(err), zap.String("path", migrationsPath))
		return fmt.Errorf("%s: %w", ErrCreateMigrationInstance, err)
	}
	defer m.Close()

	if err := step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Error(ctx, errMsg, zap.Error(err))
		return fmt.Errorf("%s: %w", errMsg, err)
	}

	log.Info(ctx, okMsg)
	return nil
}
