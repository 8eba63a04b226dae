package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"campus-notify/internal/config"
	"campus-notify/internal/domain"
	"campus-notify/internal/handler"
	"campus-notify/internal/middleware"
	"campus-notify/internal/provider"
	"campus-notify/internal/repository"
	"campus-notify/internal/service"
	"campus-notify/internal/service/dispatch"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	zlog := config.NewLogger(cfg)
	defer zlog.Sync()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		zlog.Warn("failed to connect to Redis, catalog cache disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		zlog.Warn("failed to connect to MinIO, object attachments disabled", zap.Error(err))
		minioClient = nil
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redisClient, minioClient, cfg, zlog)
	handlers := handler.NewHandlers(services)

	providers := provider.NewRegistry()
	providers.Register(domain.VariantEmail,
		provider.NewEmailProvider(cfg.ResendAPIKey, cfg.FromEmail, cfg.DevFallbackEmail, zlog))
	providers.Register(domain.VariantWhatsApp,
		provider.NewWhatsAppProvider(cfg.WhatsAppAPIURL, cfg.WhatsAppAPIKey, cfg.DevFallbackPhone, cfg.SendTimeout, zlog))

	worker := dispatch.NewWorker(repos.Queue, repos.Notification, services.Render, providers, dispatch.Config{
		PollInterval: cfg.PollInterval,
		BatchSize:    cfg.BatchSize,
		MaxRetries:   cfg.MaxRetries,
		SendTimeout:  cfg.SendTimeout,
	}, zlog)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(workerCtx)
	}()

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers)

	go func() {
		zlog.Info("server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	zlog.Info("shutdown signal received, draining")
	stopWorker()
	wg.Wait()
	if err := app.Shutdown(); err != nil {
		zlog.Error("server shutdown failed", zap.Error(err))
	}
	zlog.Info("shutdown complete")
}

func setupRoutes(app *fiber.App, h *handler.Handlers) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	v1.Post("/enqueue", h.Enqueue.Enqueue)

	masters := v1.Group("/masters")
	masters.Get("/", h.Master.List)
	masters.Post("/", h.Master.Create)
	masters.Get("/:id", h.Master.Get)
	masters.Patch("/:id", h.Master.Update)
	masters.Get("/:masterId/fields", h.Master.ListFields)
	masters.Post("/:masterId/fields", h.Master.AddField)
	masters.Delete("/:masterId/fields/:fieldId", h.Master.RemoveField)
	masters.Get("/:masterId/meta", h.Master.ListMeta)
	masters.Post("/:masterId/meta", h.Master.AddMeta)
	masters.Patch("/:masterId/meta/:metaId", h.Master.UpdateMeta)
	masters.Delete("/:masterId/meta/:metaId", h.Master.RemoveMeta)

	events := v1.Group("/events")
	events.Get("/", h.Event.List)
	events.Post("/", h.Event.Create)
	events.Get("/:id", h.Event.Get)
	events.Patch("/:id", h.Event.Update)

	notifications := v1.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/:id", h.Notification.Get)
	notifications.Get("/:id/contents", h.Notification.ListContents)

	queue := v1.Group("/queue")
	queue.Get("/", h.Notification.ListQueue)
	queue.Get("/:id", h.Notification.GetQueueEntry)
}
