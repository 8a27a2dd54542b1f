package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/scstore/catalog/internal/auth"
	"github.com/scstore/catalog/internal/config"
	"github.com/scstore/catalog/internal/domain"
	"github.com/scstore/catalog/internal/handler"
	"github.com/scstore/catalog/internal/importer"
	"github.com/scstore/catalog/internal/infra/postgresql"
	"github.com/scstore/catalog/internal/infra/postgresql/migrations"
	infraredis "github.com/scstore/catalog/internal/infra/redis"
	"github.com/scstore/catalog/internal/notify"
	"github.com/scstore/catalog/internal/observability"
	"github.com/scstore/catalog/internal/repository"
	"github.com/scstore/catalog/internal/service"
	"github.com/scstore/catalog/internal/transport"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	drainTimeout    = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("catalog api exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("postgres initialization failed: %w", err)
	}

	if err := migrations.Migrate(db); err != nil {
		return fmt.Errorf("database migrations failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("postgres underlying db init failed: %w", err)
	}
	defer sqlDB.Close()

	rdb, err := infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis initialization failed: %w", err)
	}
	defer rdb.Close()

	limiter, err := infraredis.NewRedisRateLimiter(rdb, cfg.ImportRatePerSec)
	if err != nil {
		return fmt.Errorf("rate limiter initialization failed: %w", err)
	}

	metrics := observability.NewMetrics()

	jobRepo := repository.NewGormImportJobRepo(db)
	productRepo := repository.NewGormProductRepo(db)
	categoryRepo := repository.NewGormCategoryRepo(db)
	userRepo := repository.NewGormUserRepo(db)

	hub := notify.NewHub(logger, metrics)

	tokens, err := auth.NewTokenManager(
		cfg.JWTSecret,
		cfg.JWTIssuer,
		time.Duration(cfg.JWTExpirationMinutes)*time.Minute,
	)
	if err != nil {
		return fmt.Errorf("token manager initialization failed: %w", err)
	}

	authService, err := auth.NewService(userRepo, tokens, logger)
	if err != nil {
		return fmt.Errorf("auth service initialization failed: %w", err)
	}

	importService, err := service.NewImportService(
		jobRepo,
		productRepo,
		categoryRepo,
		importer.NewCSVParser(logger),
		importer.NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano()))),
		hub,
		logger,
		metrics,
		cfg.ImportBatchSize,
	)
	if err != nil {
		return fmt.Errorf("import service initialization failed: %w", err)
	}

	productService, err := service.NewProductService(productRepo, categoryRepo, logger)
	if err != nil {
		return fmt.Errorf("product service initialization failed: %w", err)
	}

	categoryService, err := service.NewCategoryService(categoryRepo, productRepo, logger)
	if err != nil {
		return fmt.Errorf("category service initialization failed: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: transport.ErrorHandler(logger),
		AppName:      "catalog-api",
	})
	app.Use(requestid.New())
	app.Use(metrics.HTTPMiddleware())

	handler.RegisterOpsRoutes(app, sqlDB, rdb, metrics.Handler())
	handler.RegisterProgressRoutes(app, hub)

	v1 := app.Group("/v1")
	if err := handler.RegisterAuthRoutes(v1, authService); err != nil {
		return err
	}

	// Everything below /v1 except login requires a valid token; writes
	// additionally require the admin role.
	v1.Use(auth.RequireAuth(tokens))
	adminOnly := auth.RequireRole(domain.RoleAdmin)
	if err := handler.RegisterCategoryRoutes(v1, categoryService, adminOnly); err != nil {
		return err
	}
	if err := handler.RegisterProductRoutes(v1, productService, adminOnly); err != nil {
		return err
	}
	if err := handler.RegisterImportRoutes(v1, importService, limiter); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("catalog api started", zap.Int("port", cfg.APIPort))
		return app.Listen(fmt.Sprintf(":%d", cfg.APIPort))
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")

		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.Warn("server shutdown incomplete", zap.Error(err))
		}

		// Accepted imports keep running after the listener closes; give
		// them a window to reach a terminal state.
		drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		if err := importService.Wait(drainCtx); err != nil {
			logger.Warn("import jobs still running at exit",
				zap.Int("activeJobs", importService.ActiveJobs()),
				zap.Error(err),
			)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}

	logger.Info("catalog api stopped")
	return nil
}
