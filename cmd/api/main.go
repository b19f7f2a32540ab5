package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/naphat-v/visawatch/internal/config"
	"github.com/naphat-v/visawatch/internal/gateway"
	"github.com/naphat-v/visawatch/internal/handler"
	"github.com/naphat-v/visawatch/internal/infra/postgresql"
	"github.com/naphat-v/visawatch/internal/infra/postgresql/migrations"
	infraredis "github.com/naphat-v/visawatch/internal/infra/redis"
	"github.com/naphat-v/visawatch/internal/observability"
	"github.com/naphat-v/visawatch/internal/repository"
	"github.com/naphat-v/visawatch/internal/service"
	"github.com/naphat-v/visawatch/internal/transport"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to initialize logger: ", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres initialization failed", zap.Error(err))
	}

	if err := migrations.Migrate(db); err != nil {
		logger.Fatal("database migrations failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("postgres underlying db init failed", zap.Error(err))
	}
	defer sqlDB.Close()

	rdb, err := infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	limiter, err := infraredis.NewRedisRateLimiter(rdb, cfg.SendRatePerSec)
	if err != nil {
		logger.Fatal("rate limiter initialization failed", zap.Error(err))
	}

	lineClient, err := gateway.NewLineClient(cfg.LineAPIBase, cfg.LineChannelToken, cfg.LineChannelSecret)
	if err != nil {
		logger.Fatal("messaging gateway initialization failed", zap.Error(err))
	}

	passports := repository.NewGormPassportRepo(db)

	eligibility, err := service.NewEligibility(passports, cfg.HorizonDays, cfg.MilestoneDays, cfg.PageLimit, logger)
	if err != nil {
		logger.Fatal("eligibility initialization failed", zap.Error(err))
	}

	dispatcher, err := service.NewDispatcher(lineClient, limiter, logger)
	if err != nil {
		logger.Fatal("dispatcher initialization failed", zap.Error(err))
	}

	pipeline, err := service.NewPipeline(eligibility, dispatcher, logger)
	if err != nil {
		logger.Fatal("pipeline initialization failed", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	pipeline.SetMetrics(metrics)

	cronTrigger, err := service.NewCronTrigger(cfg.ReminderCron, pipeline, logger)
	if err != nil {
		logger.Fatal("cron trigger initialization failed", zap.Error(err))
	}

	webhookHandler, err := handler.NewWebhookHandler(pipeline, lineClient, cfg.TriggerKeyword, cfg.InboundMode, logger)
	if err != nil {
		logger.Fatal("webhook handler initialization failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          transport.ErrorHandler(logger),
		DisableStartupMessage: true,
	})
	app.Use(metrics.HTTPMiddleware())

	if err := handler.RegisterWebhookRoutes(app, webhookHandler); err != nil {
		logger.Fatal("webhook route registration failed", zap.Error(err))
	}
	handler.RegisterHealthRoutes(app, sqlDB, rdb)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("visawatch api started", zap.Int("port", cfg.APIPort))
		return app.Listen(fmt.Sprintf(":%d", cfg.APIPort))
	})

	g.Go(func() error {
		return cronTrigger.Start(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}

	logger.Info("shutdown complete")
}
