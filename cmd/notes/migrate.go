package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"notekeeper/internal/notes/config"
	"notekeeper/internal/notes/db"
	"notekeeper/pkg/logger"
)

// ErrMigrate сообщает о неудачной миграции.
const ErrMigrate = "migration failed"

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the notes database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runMigrate(cmd.Context(), opts.configPath, db.Migrate)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runMigrate(cmd.Context(), opts.configPath, db.Rollback)
			},
		},
	)

	return cmd
}

func runMigrate(
	ctx context.Context,
	configPath string,
	step func(context.Context, *config.PostgresConfig) error,
) error {
	log := logger.Log(ctx)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		log.Error(ctx, ErrLoadConfig, zap.Error(err))
		return errSilent
	}

	if err := step(ctx, &cfg.Postgres); err != nil {
		log.Error(ctx, ErrMigrate, zap.Error(err))
		return errSilent
	}

	return nil
}
