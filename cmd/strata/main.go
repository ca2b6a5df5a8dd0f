package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/strata-erp/strata-reports/internal/app"
	"github.com/strata-erp/strata-reports/internal/auth"
	"github.com/strata-erp/strata-reports/internal/export"
	"github.com/strata-erp/strata-reports/internal/observability"
	"github.com/strata-erp/strata-reports/internal/platform/cache"
	"github.com/strata-erp/strata-reports/internal/platform/db"
	reporthttp "github.com/strata-erp/strata-reports/internal/report/http"
	"github.com/strata-erp/strata-reports/internal/reportcfg"
	"github.com/strata-erp/strata-reports/internal/shared"
	"github.com/strata-erp/strata-reports/internal/tenant"
	"github.com/strata-erp/strata-reports/internal/upstream"
	"github.com/strata-erp/strata-reports/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	observability.SetDefault(metrics)

	sessionManager := shared.NewSessionManager(redisClient, "strata_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	tenantRepo := tenant.NewRepository(dbpool)
	tenantService := tenant.NewService(tenantRepo)
	tenantHandler := tenant.NewHandler(logger, tenantService)

	configRepo := reportcfg.NewRepository(dbpool)
	configCache := reportcfg.NewCache(redisClient, cfg.ReportCacheTTL)
	configService := reportcfg.NewService(configRepo, configCache)

	exportStore := export.NewStore(redisClient, cfg.ExportTTL)
	pdfExporter := &export.PDFExporter{Endpoint: cfg.GotenbergURL, Client: http.DefaultClient}

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	fetcherFactory := func(baseURL, token string) reporthttp.Fetcher {
		if baseURL == "" {
			baseURL = cfg.UpstreamBaseURL
		}
		return upstream.NewClient(baseURL, token, cfg.UpstreamTimeout)
	}

	reportHandler := reporthttp.NewHandler(
		logger,
		configService,
		fetcherFactory,
		sessionManager,
		exportStore,
		jobsClient,
		pdfExporter,
	)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		AuthHandler:    authHandler,
		TenantHandler:  tenantHandler,
		ReportHandler:  reportHandler,
		JobHandler:     jobHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
