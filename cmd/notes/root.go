package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"notekeeper/pkg/logger"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "NOTES_LOGGER_MODE"
	EnvLoggerLevel = "NOTES_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger = "failed to initialize logger"
	ErrSyncLogger = "failed to sync logger"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// errSilent означает, что команда уже сообщила о проблеме и нужен только код выхода.
var errSilent = errors.New("silent failure")

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "notes",
		Short:         "Notes service",
		Long:          `Notes CRUD service over HTTP with Postgres storage and an optional Redis cache.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initLogger(cmd, opts.verbose)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			syncLogger()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"path to a YAML or ENV config file (defaults to $NOTES_CONFIG_PATH)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newValidateCmd(),
	)

	return cmd
}

// Execute запускает CLI и возвращает код выхода.
func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// initLogger настраивает глобальный логгер по переменным окружения
// и кладет в контекст команды идентификатор запуска.
func initLogger(cmd *cobra.Command, verbose bool) error {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	level := os.Getenv(EnvLoggerLevel)
	if verbose {
		level = "debug"
	}

	log, err := logger.NewLogger(env, level)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrInitLogger, err)
	}
	logger.SetGlobalLogger(log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.NewRequestIDContext(ctx, ""))

	return nil
}

func syncLogger() {
	if err := logger.Log(context.Background()).Sync(); err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
			return
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err)
	}
}
