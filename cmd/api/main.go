package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"sauti-jamii/internal/config"
	"sauti-jamii/internal/domain"
	"sauti-jamii/internal/handler"
	"sauti-jamii/internal/middleware"
	"sauti-jamii/internal/realtime"
	"sauti-jamii/internal/repository"
	"sauti-jamii/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (unread counts will not be cached)", err)
		redisClient = nil
	}

	repos := repository.NewRepositories(db)
	registry := realtime.NewRegistry()
	services := service.NewServices(repos, redisClient, registry, cfg)
	handlers := handler.NewHandlers(services, registry)

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
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, cfg, repos)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, cfg *config.Config, repos *repository.Repositories) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authRequired := middleware.AuthRequired(cfg.JWTSecret, repos.User)

	app.Get("/ws", authRequired, h.WS.Upgrade, websocket.New(h.WS.Handle))

	v1 := app.Group("/api/v1")
	protected := v1.Group("", authRequired)

	messages := protected.Group("/messages")
	messages.Post("/", h.Message.Send)
	messages.Get("/", h.Message.List)
	messages.Patch("/:id/delivered", h.Message.AcknowledgeDelivered)
	messages.Patch("/:id/read", h.Message.AcknowledgeRead)

	issues := protected.Group("/issues")
	issues.Post("/", h.Issue.Create)
	issues.Get("/", h.Issue.List)
	issues.Get("/:id", h.Issue.Get)
	issues.Post("/:id/assign", h.Issue.Assign)
	issues.Post("/:id/transition", h.Issue.Transition)
	issues.Get("/:id/history", h.Issue.History)

	protected.Get("/representatives/match", h.Issue.MatchRepresentatives)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)

	protected.Get("/preferences", h.Notification.GetPreferences)
	protected.Put("/preferences", h.Notification.UpdatePreferences)

	pushGroup := protected.Group("/push")
	pushGroup.Post("/subscriptions", h.Push.Subscribe)
	pushGroup.Delete("/subscriptions", h.Push.Unsubscribe)

	admin := protected.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	admin.Get("/delivery-settings", h.Notification.GetDeliverySettings)
	admin.Put("/delivery-settings", h.Notification.UpdateDeliverySettings)
}
