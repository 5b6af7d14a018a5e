// Package server assembles the HTTP application from configuration.
package server

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feira/internal/config"
	"feira/internal/database"
	"feira/internal/handlers"
	"feira/internal/middleware"
	"feira/internal/repositories"
	"feira/internal/services"
	"feira/internal/storage"
	"feira/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Deps are the collaborators the HTTP application is built from.
type Deps struct {
	DB     *gorm.DB
	Assets storage.AssetStore
	// StaticRoot serves /imagens from disk when non-empty.
	StaticRoot string
	// Events may be nil to disable asset events.
	Events    services.EventPublisher
	JWTSecret string
	TokenTTL  time.Duration
	Showcase  map[string]any
}

// NewApp wires repositories, services and handlers into a Fiber app.
func NewApp(deps Deps) *fiber.App {
	userRepo := repositories.NewGORMUserRepository(deps.DB)
	productRepo := repositories.NewGORMProductRepository(deps.DB)

	authService := services.NewAuthService(userRepo, deps.Assets, deps.JWTSecret, deps.TokenTTL)
	profileService := services.NewProfileService(userRepo, productRepo, deps.Assets, deps.Events)
	productService := services.NewProductService(productRepo, deps.Assets, deps.Events)
	accountService := services.NewAccountService(userRepo, productRepo, deps.Assets, deps.Events)
	catalogService := services.NewCatalogService(productRepo, deps.Showcase)

	app := fiber.New(fiber.Config{
		BodyLimit: 8 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		events := "disabled"
		if deps.Events != nil {
			events = "connected"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"rabbitMQ": events,
		})
	})
	if deps.StaticRoot != "" {
		app.Static("/imagens", deps.StaticRoot)
	}

	auth := middleware.AuthRequired(authService)
	handlers.NewHomeHandler(catalogService).RegisterRoutes(app)
	handlers.NewAuthHandler(authService, deps.TokenTTL).RegisterRoutes(app)
	handlers.NewProfileHandler(profileService, accountService).RegisterRoutes(app, auth)
	handlers.NewProductHandler(productService).RegisterRoutes(app, auth)

	return app
}

// Server owns the application and the connections behind it.
type Server struct {
	cfg  config.Config
	app  *fiber.App
	mq   *rabbitmq.Client
	sqlc func() error
}

// New opens the database, the asset store and, when configured, the
// RabbitMQ client, and builds the application.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database handle: %w", err)
	}

	assets, staticRoot, err := newAssetStore(ctx, cfg.Storage)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	s := &Server{cfg: cfg, sqlc: sqlDB.Close}
	deps := Deps{
		DB:         db,
		Assets:     assets,
		StaticRoot: staticRoot,
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.TokenTTL,
		Showcase:   services.LoadShowcase(cfg.ShowcaseFile),
	}

	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		s.mq = mq
		deps.Events = mq

		cleanup := services.NewCleanupService(assets)
		if err := mq.ConsumeAssetEvents(cleanup.HandleAssetEvent); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	} else {
		log.Println("RABBITMQ_URL not set; asset events disabled")
	}

	s.app = NewApp(deps)
	return s, nil
}

func newAssetStore(ctx context.Context, cfg config.StorageConfig) (storage.AssetStore, string, error) {
	switch cfg.Driver {
	case "minio":
		store, err := storage.NewMinioStore(cfg.Minio)
		if err != nil {
			return nil, "", fmt.Errorf("failed to initialize minio store: %w", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, "", fmt.Errorf("failed to ensure bucket %s: %w", cfg.Minio.Bucket, err)
		}
		return store, "", nil
	default:
		return storage.NewLocalStore(cfg.Root), cfg.Root, nil
	}
}

// Start listens on the configured port until SIGINT or SIGTERM, then shuts
// down gracefully.
func (s *Server) Start() error {
	defer s.close()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on port %s", s.cfg.AppPort)
		errCh <- s.app.Listen(s.cfg.AppPort)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Println("Shutting down server...")
	if err := s.app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
	return nil
}

func (s *Server) close() {
	if s.mq != nil {
		if err := s.mq.Close(); err != nil {
			log.Printf("Error closing RabbitMQ client: %v", err)
		}
	}
	if err := s.sqlc(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}
