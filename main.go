package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/handlers"
	"foodgram/internal/logging"
	"foodgram/internal/middleware"
	"foodgram/internal/repositories"
	"foodgram/internal/services"
	"foodgram/internal/storage"
	"foodgram/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	app, cleanup, err := NewApp(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize application")
	}
	defer cleanup()

	// --- Start HTTP Server ---
	logging.Info().Str("address", cfg.AppPort).Msg("starting server")

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			logging.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	logging.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		logging.Error().Err(err).Msg("error during fiber shutdown")
	}
	logging.Info().Msg("server gracefully stopped")
}

// NewApp builds the HTTP application and every dependency behind it. The
// returned cleanup function releases the database and broker connections.
func NewApp(cfg *config.Config) (*fiber.App, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// --- Database ---
	db, err := database.Open(database.Config{Driver: cfg.DatabaseDriver, DSN: cfg.DatabaseDSN})
	if err != nil {
		return nil, cleanup, err
	}
	closers = append(closers, func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := database.Migrate(db); err != nil {
		return nil, cleanup, err
	}

	// --- Image storage ---
	var images storage.ImageStore
	switch cfg.ImageStore {
	case "s3":
		images, err = storage.NewS3Store(context.Background(), storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	default:
		images, err = storage.NewLocalStore(cfg.MediaDir, cfg.MediaURL)
	}
	if err != nil {
		return nil, cleanup, err
	}

	// --- Events ---
	// left nil when no broker is configured; services skip publishing then
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.RabbitMQExchange})
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() { mqClient.Close() })
		events = mqClient
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	recipeRepo := repositories.NewGORMRecipeRepository(db)
	membershipRepo := repositories.NewGORMMembershipRepository(db)
	subscriptionRepo := repositories.NewGORMSubscriptionRepository(db)
	catalogRepo := repositories.NewGORMCatalogRepository(db)

	// --- Services ---
	catalog, err := services.NewCatalogService(catalogRepo, cfg.CatalogCacheSize, cfg.CatalogCacheTTL)
	if err != nil {
		return nil, cleanup, err
	}
	svc := handlers.Services{
		Auth:          services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, events),
		Users:         services.NewUserService(userRepo),
		Recipes:       services.NewRecipeService(recipeRepo, catalogRepo, membershipRepo, images, events),
		Memberships:   services.NewMembershipService(recipeRepo, membershipRepo, events),
		ShoppingCart:  services.NewShoppingCartService(recipeRepo, membershipRepo),
		Subscriptions: services.NewSubscriptionService(userRepo, recipeRepo, subscriptionRepo, events, cfg.RecipesLimit),
		Catalog:       catalog,
	}

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		AppName:      "Foodgram API",
		BodyLimit:    2 * storage.MaxImageSize,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: middleware.ErrorHandler,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	app.Use(middleware.RequestLogger())

	// --- API Routes ---
	handlers.Register(app.Group("/api"), svc, handlers.Paging{
		DefaultLimit: cfg.PageSize,
		MaxLimit:     cfg.MaxPageSize,
	})

	if cfg.ImageStore != "s3" {
		app.Static(cfg.MediaURL, cfg.MediaDir)
	}

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		status, dbStatus := fiber.StatusOK, "up"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status, dbStatus = fiber.StatusServiceUnavailable, "down"
		}
		return c.Status(status).JSON(fiber.Map{
			"status":   healthStatus(status),
			"time":     time.Now().Format(time.RFC3339),
			"database": dbStatus,
			"events":   events != nil,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	logging.Info().
		Str("database", cfg.DatabaseDriver).
		Str("images", cfg.ImageStore).
		Bool("events", events != nil).
		Str("origins", strings.TrimSpace(cfg.CORSOrigins)).
		Msg("application initialized")
	return app, cleanup, nil
}

func healthStatus(code int) string {
	if code == fiber.StatusOK {
		return "healthy"
	}
	return fmt.Sprintf("unhealthy (%d)", code)
}
