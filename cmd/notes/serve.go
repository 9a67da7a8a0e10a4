package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"notekeeper/internal/notes/adapters/cache"
	notehttp "notekeeper/internal/notes/adapters/http"
	"notekeeper/internal/notes/adapters/postgres"
	"notekeeper/internal/notes/adapters/services"
	"notekeeper/internal/notes/app"
	"notekeeper/internal/notes/config"
	"notekeeper/internal/notes/db"
	cachePorts "notekeeper/internal/notes/ports/cache"
	servicePorts "notekeeper/internal/notes/ports/services"
	"notekeeper/pkg/db/redis"
	"notekeeper/pkg/logger"
	"notekeeper/pkg/resilience"
	"notekeeper/pkg/shutdown"
)

// Константы для сообщений об ошибках.
const (
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDB               = "failed to initialize database"
	ErrCreateRedisClient    = "failed to create Redis client"
	ErrStartHTTPServer      = "failed to start HTTP server"
	ErrMissingJWTSecret     = "auth is enabled but NOTES_JWT_SECRET_KEY is empty"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "note service started"
	LogServiceShutdownDone = "note service shutdown complete"
	LogClosingDB           = "closing database connections"
	LogClosingCache        = "closing Redis connection"
	LogStoppingHTTP        = "stopping HTTP server"
	LogInitRepo            = "initializing repositories"
	LogInitCache           = "initializing cache"
	LogCacheDisabled       = "redis cache disabled"
	LogInitServices        = "initializing services"
	LogAuthDisabled        = "bearer auth disabled"
	LogInitUseCases        = "initializing use cases"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts.configPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	log := logger.Log(ctx)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		log.Error(ctx, ErrLoadConfig, zap.Error(err))
		return errSilent
	}

	finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
	if err != nil {
		log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
		return errSilent
	}
	logger.SetGlobalLogger(finalLogger)
	log = finalLogger

	if cfg.Auth.Enabled && cfg.Auth.SecretKey == "" {
		log.Error(ctx, ErrMissingJWTSecret)
		return errSilent
	}

	database, err := db.New(ctx, &cfg.Postgres)
	if err != nil {
		log.Error(ctx, ErrInitDB, zap.Error(err))
		return errSilent
	}

	log.Info(ctx, LogServiceStarted,
		zap.String("environment", string(cfg.Logging.GetEnvironment())),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("startup_time", time.Now().Format(time.RFC3339)))

	log.Info(ctx, LogInitRepo)
	repoFactory := postgres.NewRepositoryFactory(database.Pool())
	noteRepo := repoFactory.NoteRepository()

	noteCache, err := newCache(ctx, &cfg.Redis)
	if err != nil {
		log.Error(ctx, ErrCreateRedisClient, zap.Error(err))
		database.Close(ctx)
		return errSilent
	}

	log.Info(ctx, LogInitServices)
	var tokenService servicePorts.TokenService
	if cfg.Auth.Enabled {
		tokenService = services.NewJWT(cfg.Auth.SecretKey)
	} else {
		log.Info(ctx, LogAuthDisabled)
	}

	log.Info(ctx, LogInitUseCases)
	noteUseCase := app.NewNoteUseCase(noteRepo, noteCache, cfg.Redis.TTL)

	log.Info(ctx, LogInitHTTPServer)
	fiberApp := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	})
	notehttp.SetupRouter(fiberApp, noteUseCase, tokenService)

	log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
	listen := func() error {
		return fiberApp.Listen(cfg.HTTP.GetAddress())
	}

	err = serveHTTP(ctx, listen, cfg.Shutdown.GetTimeout(),
		// Остановка HTTP сервера.
		func(ctx context.Context) error {
			log.Info(ctx, LogStoppingHTTP)
			return fiberApp.ShutdownWithContext(ctx)
		},
		// Закрытие Redis соединения.
		func(ctx context.Context) error {
			log.Info(ctx, LogClosingCache)
			return noteCache.Close()
		},
		func(ctx context.Context) error {
			log.Info(ctx, LogClosingDB)
			database.Close(ctx)
			return nil
		},
	)
	if err != nil {
		log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
		return errSilent
	}

	log.Info(ctx, LogServiceShutdownDone)
	return nil
}

// serveHTTP запускает listen в фоне и ждет сигнала, отмены ctx или ошибки запуска,
// после чего выполняет хуки завершения. Возвращает ошибку listen, если сервер не поднялся.
func serveHTTP(ctx context.Context, listen func() error, timeout time.Duration, hooks ...shutdown.Hook) error {
	serveCtx, stop := context.WithCancel(ctx)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		if err := listen(); err != nil {
			listenErr <- err
			stop()
		}
	}()

	shutdown.Wait(serveCtx, timeout, hooks...)

	select {
	case err := <-listenErr:
		return err
	default:
		return nil
	}
}

func newCache(ctx context.Context, cfg *config.RedisConfig) (cachePorts.Cache, error) {
	log := logger.Log(ctx)

	if !cfg.Enabled {
		log.Info(ctx, LogCacheDisabled)
		return cache.NewNoopCache(), nil
	}

	log.Info(ctx, LogInitCache)
	client, err := redis.NewClient(ctx, cfg.ClientConfig())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrCreateRedisClient, err)
	}

	breaker := resilience.NewCircuitBreaker("redis-cache", cfg.BreakerConfig())
	return cache.NewBreakerCache(cache.NewRedisCache(client, cfg.TTL), breaker), nil
}
