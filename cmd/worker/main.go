package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/strata-erp/strata-reports/internal/app"
	"github.com/strata-erp/strata-reports/internal/export"
	"github.com/strata-erp/strata-reports/internal/platform/cache"
	"github.com/strata-erp/strata-reports/internal/platform/db"
	"github.com/strata-erp/strata-reports/internal/reportcfg"
	"github.com/strata-erp/strata-reports/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

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

	configRepo := reportcfg.NewRepository(pool)
	configCache := reportcfg.NewCache(redisClient, cfg.ReportCacheTTL)
	configService := reportcfg.NewService(configRepo, configCache)

	exportStore := export.NewStore(redisClient, cfg.ExportTTL)
	pdfExporter := &export.PDFExporter{Endpoint: cfg.GotenbergURL, Client: http.DefaultClient}

	renderHandler := jobs.NewExportRenderHandler(exportStore, pdfExporter, logger)
	warmupHandler := jobs.NewConfigWarmupHandler(configService, logger)

	warmupTask, err := jobs.NewConfigWarmupTask(jobs.ConfigWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskRenderExport, Handler: renderHandler},
			{Type: jobs.TaskConfigWarmup, Handler: warmupHandler},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "15 1 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
