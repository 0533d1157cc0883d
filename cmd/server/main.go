package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/seu-repo/hawala-bot/internal/adapter/ai/openai"
	"github.com/seu-repo/hawala-bot/internal/adapter/cache"
	"github.com/seu-repo/hawala-bot/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/hawala-bot/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/hawala-bot/internal/adapter/queue"
	"github.com/seu-repo/hawala-bot/internal/adapter/storage/postgres"
	"github.com/seu-repo/hawala-bot/internal/adapter/vault"
	"github.com/seu-repo/hawala-bot/internal/adapter/whatsapp"
	"github.com/seu-repo/hawala-bot/internal/domain"
	"github.com/seu-repo/hawala-bot/internal/ports"
	"github.com/seu-repo/hawala-bot/internal/service/alert"
	"github.com/seu-repo/hawala-bot/internal/service/ledger"
	"github.com/seu-repo/hawala-bot/internal/service/resolver"
	"github.com/seu-repo/hawala-bot/internal/service/transcriber"
	"github.com/seu-repo/hawala-bot/pkg/config"
)

func main() {
	// 1. Initialize Logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// 2. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Starting hawala-bot",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
	)

	// 3. Optionally pull credentials from Vault
	if cfg.Vault.Address != "" {
		loadSecrets(cfg, logger)
	}

	// 4. Initialize PostgreSQL and seed the branch directory
	db, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer postgres.Close(db)

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	directory := domain.NewDirectory(cfg.Business.Branches)
	branchRepo := postgres.NewBranchRepository(db, logger)
	transferRepo := postgres.NewTransferRepository(db, logger)

	bootCtx, cancelBoot := contextWithStartupTimeout()
	if err := branchRepo.SeedIfEmpty(bootCtx, directory.List()); err != nil {
		cancelBoot()
		logger.Fatal("Failed to seed branch directory", zap.Error(err))
	}
	cancelBoot()

	// 5. Initialize Redis (message dedup). Missing Redis degrades to
	// processing every delivery.
	var redisCache ports.Cache
	if cfg.Redis.URL != "" {
		redisCache, err = cache.NewRedisCache(cfg.Redis.URL, logger)
		if err != nil {
			logger.Warn("Redis unavailable, webhook dedup disabled", zap.Error(err))
			redisCache = nil
		} else {
			defer redisCache.Close()
		}
	}
	deduper := cache.NewMessageDeduper(redisCache, cfg.Redis.DedupTTL, logger)

	// 6. Initialize Message Queue (optional)
	events, err := queue.New(cfg.Queue, logger)
	if err != nil {
		logger.Warn("Message queue unavailable, event publishing disabled", zap.Error(err))
		events = nil
	}
	if events != nil {
		defer events.Close()
	}

	// 7. Ops alerting
	var alertProvider alert.Provider
	if cfg.Alert.SendGridAPIKey != "" {
		alertProvider = alert.NewSendGridProvider(cfg.Alert.SendGridAPIKey, cfg.Alert.FromEmail, cfg.Alert.FromName)
	}
	alerts := alert.NewService(alertProvider, cfg.Alert.AdminEmail, logger)

	// 8. External clients
	oracle := openai.NewClient(cfg.OpenAI, cfg.Business.DefaultCurrency, directory, logger)
	messenger := whatsapp.NewClient(cfg.WhatsApp, logger)

	// 9. Core services
	transcribeService := transcriber.NewService(messenger, oracle, logger)
	ledgerService := ledger.NewService(directory, branchRepo, transferRepo, events, alerts, cfg.Business.DefaultCurrency, logger)
	resolverService := resolver.NewService(oracle, transcribeService, ledgerService, logger)

	// 10. HTTP server
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("Database not ready")
		}
		if redisCache != nil && redisCache.Ping() != nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("Cache not ready")
		}
		return c.SendString("Ready")
	})

	app.Get("/metrics", func(c *fiber.Ctx) error {
		handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		handler(c.Context())
		return nil
	})

	webhookHandler := handlers.NewWebhookHandler(cfg.WhatsApp.VerifyToken, resolverService, messenger, deduper, logger)
	app.Get("/webhook", webhookHandler.Verify)
	app.Post("/webhook", webhookHandler.Receive)

	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	if err := app.Shutdown(); err != nil {
		logger.Error("HTTP shutdown failed", zap.Error(err))
	}
	logger.Info("Shutdown complete")
}

func contextWithStartupTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 15*time.Second)
}

// loadSecrets overrides file/env credentials with Vault values when the
// lookups succeed. A partial Vault outage keeps the configured values.
func loadSecrets(cfg *config.Config, logger *zap.Logger) {
	sm, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
	if err != nil {
		logger.Warn("Vault client init failed, using configured secrets", zap.Error(err))
		return
	}

	if key, err := sm.GetOpenAIAPIKey(); err == nil && key != "" {
		cfg.OpenAI.APIKey = key
	} else if err != nil {
		logger.Warn("Vault lookup for OpenAI key failed", zap.Error(err))
	}

	if token, err := sm.GetWhatsAppAPIToken(); err == nil && token != "" {
		cfg.WhatsApp.APIToken = token
	} else if err != nil {
		logger.Warn("Vault lookup for WhatsApp token failed", zap.Error(err))
	}

	if url, err := sm.GetDatabaseURL(); err == nil && url != "" {
		cfg.Database.URL = url
	} else if err != nil {
		logger.Warn("Vault lookup for database url failed", zap.Error(err))
	}
}
