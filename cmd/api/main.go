package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mekong-creative/api/internal/di"
	"github.com/mekong-creative/api/internal/handlers"
	"github.com/mekong-creative/api/internal/platform/auth"
	"github.com/mekong-creative/api/internal/platform/config"
	"github.com/mekong-creative/api/internal/platform/idempotency"
	"github.com/mekong-creative/api/internal/platform/observability"
	"github.com/mekong-creative/api/internal/services"
)

func main() {
	ctx := context.Background()
	startedAt := time.Now().UTC()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		var invalid *config.ValidationError
		if errors.As(err, &invalid) {
			logger.Fatal("invalid configuration", zap.Strings("fields", invalid.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	buildInfo := buildInfoFromEnv(startedAt)

	container, err := di.NewContainer(cfg, logger, buildInfo)
	if err != nil {
		logger.Fatal("failed to assemble dependencies", zap.Error(err))
	}

	// Seed the snapshot before serving. A store failure is absorbed; the site
	// starts on bundled content and later refreshes pick up remote rows.
	refreshCtx, cancelSeed := context.WithTimeout(ctx, cfg.RemoteStore.Timeout)
	if err := container.Services.Catalog.Refresh(refreshCtx); err != nil {
		logger.Warn("initial content refresh failed", zap.Error(err))
	}
	cancelSeed()

	idempotencyStore := idempotency.NewMemoryStore()
	idempotencyMiddleware := idempotency.Middleware(
		idempotencyStore,
		idempotency.WithHeader(cfg.Idempotency.Header),
		idempotency.WithTTL(cfg.Idempotency.TTL),
		idempotency.WithLogger(observability.NewPrintfAdapter(logger.Named("idempotency"))),
	)

	backgroundCtx, backgroundCancel := context.WithCancel(context.Background())
	var backgroundWG sync.WaitGroup

	if cfg.Idempotency.CleanupInterval > 0 {
		ticker := time.NewTicker(cfg.Idempotency.CleanupInterval)
		backgroundWG.Add(1)
		go func() {
			defer backgroundWG.Done()
			defer ticker.Stop()
			cleanupLogger := logger.Named("idempotency")
			for {
				select {
				case <-ticker.C:
					removed, err := idempotencyStore.CleanupExpired(backgroundCtx, time.Now().UTC(), cfg.Idempotency.CleanupBatchSize)
					if err != nil {
						cleanupLogger.Error("idempotency cleanup error", zap.Error(err))
						continue
					}
					if removed > 0 {
						cleanupLogger.Info("idempotency cleanup removed records", zap.Int("count", removed))
					}
				case <-backgroundCtx.Done():
					return
				}
			}
		}()
	}

	if cfg.RemoteStore.RefreshInterval > 0 {
		ticker := time.NewTicker(cfg.RemoteStore.RefreshInterval)
		backgroundWG.Add(1)
		go func() {
			defer backgroundWG.Done()
			defer ticker.Stop()
			refreshLogger := logger.Named("refresh")
			for {
				select {
				case <-ticker.C:
					runCtx, cancel := context.WithTimeout(backgroundCtx, cfg.RemoteStore.Timeout)
					err := container.Services.Catalog.Refresh(runCtx)
					cancel()
					if err != nil {
						refreshLogger.Warn("periodic content refresh failed", zap.Error(err))
					}
				case <-backgroundCtx.Done():
					return
				}
			}
		}()
	}

	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(),
	}

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthBuildInfo(buildInfo),
		handlers.WithHealthSystemService(container.Services.System),
	)

	catalogHandlers := handlers.NewCatalogHandlers(container.Services.Catalog, container.Services.Content)
	contactHandlers := handlers.NewContactHandlers(container.Services.Contact)
	sessionHandlers := handlers.NewSessionHandlers(container.Auth.PINs, container.Auth.Sessions)
	localeHandlers := handlers.NewLocaleHandlers(container.Locales)

	var authenticator *auth.Authenticator
	if container.Auth.Sessions != nil {
		authenticator = auth.NewAuthenticator(container.Auth.Sessions)
	}
	adminHandlers := handlers.NewAdminHandlers(
		authenticator,
		container.Services.Catalog,
		container.Services.Content,
		container.Services.Publish,
		container.Services.Settings,
	)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithCatalogRoutes(catalogHandlers.Routes),
		handlers.WithContactRoutes(contactHandlers.Routes),
		handlers.WithSessionRoutes(sessionHandlers.Routes),
		handlers.WithLocaleRoutes(localeHandlers.Routes),
		handlers.WithAdminRoutes(adminHandlers.Routes),
		handlers.WithAdminMiddlewares(idempotencyMiddleware),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("mekong-creative api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	backgroundCancel()
	backgroundWG.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildInfoFromEnv(started time.Time) services.BuildInfo {
	version := strings.TrimSpace(os.Getenv("API_BUILD_VERSION"))
	if version == "" {
		version = "dev"
	}
	commit := strings.TrimSpace(os.Getenv("API_BUILD_COMMIT_SHA"))
	if commit == "" {
		commit = "unknown"
	}
	environment := strings.TrimSpace(os.Getenv("API_ENVIRONMENT"))
	if environment == "" {
		environment = "local"
	}
	return services.BuildInfo{
		Version:     version,
		CommitSHA:   commit,
		Environment: environment,
		StartedAt:   started,
	}
}
