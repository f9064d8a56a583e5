package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/uppa/uppa_core/internal/api"
	"github.com/uppa/uppa_core/internal/cache"
	"github.com/uppa/uppa_core/internal/collab"
	"github.com/uppa/uppa_core/internal/config"
	"github.com/uppa/uppa_core/internal/db"
	"github.com/uppa/uppa_core/internal/fixtures"
	"github.com/uppa/uppa_core/internal/middleware"
	"github.com/uppa/uppa_core/internal/models"
	"github.com/uppa/uppa_core/internal/session"
	"github.com/uppa/uppa_core/internal/store"
)

func main() {
	log.Println("Starting UppA API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Network fixtures come from PostgreSQL when available; a missing
	// database only costs persistence of the network data.
	buses := fixtures.BusLines()
	stops := fixtures.BusStops()
	if pool, err := db.GetDB(); err != nil {
		log.Printf("Warning: database unavailable, using embedded fixtures: %v", err)
	} else {
		defer db.Close()
		log.Println("✓ Database connection established")

		if loaded, err := fixtures.LoadBusLines(context.Background(), pool); err != nil {
			log.Printf("Warning: failed to load bus lines from database: %v", err)
		} else {
			buses = loaded
		}
		if loaded, err := fixtures.LoadBusStops(context.Background(), pool); err != nil {
			log.Printf("Warning: failed to load bus stops from database: %v", err)
		} else {
			stops = loaded
		}
	}

	if _, err := cache.GetClient(); err != nil {
		log.Printf("Warning: Redis unavailable, sessions are instance-local: %v", err)
	} else {
		defer cache.Close()
		log.Println("✓ Redis connection established")
	}

	var routes collab.RouteFetcher
	var geocoder collab.Geocoder
	if cfg.Maps.APIKey != "" {
		gm, err := collab.NewGoogleMaps(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("Failed to create Google Maps client: %v", err)
		}
		routes, geocoder = gm, gm
		log.Println("✓ Google Maps client initialized")
	} else {
		log.Println("No Maps API key configured, routing and geocoding disabled")
	}

	manager := session.NewManager(
		cfg.Timers,
		store.DefaultConfig(),
		collab.NewLexiconClassifier(),
		func() store.AppState {
			return store.NewState(copyBusFixtures(buses))
		},
	)
	defer manager.Close()

	handler := &api.Handler{
		Sessions: manager,
		Routes:   routes,
		Geocoder: geocoder,
		Weather:  collab.NewSimulatedWeather(time.Now().UnixNano()),
		Stops:    stops,
	}

	app := fiber.New(fiber.Config{
		AppName:      "UppA API",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", api.Health)
	app.Post("/v2/session/login", handler.Login)

	auth := app.Group("/v2", middleware.SessionMiddleware(manager))
	if rdb, err := cache.GetClient(); err == nil {
		auth.Use(middleware.RateLimitMiddleware(rdb, 0))
	}

	auth.Post("/session/logout", handler.Logout)

	auth.Get("/reports", handler.ListReports)
	auth.Post("/reports", handler.CreateReport)
	auth.Post("/reports/:id/upvote", handler.UpvoteReport)

	auth.Get("/chat/:lineId/messages", handler.ListChatMessages)
	auth.Post("/chat/:lineId/messages", handler.PostChatMessage)

	auth.Get("/micromobility/chat", handler.ListGlobalChatMessages)
	auth.Post("/micromobility/chat", handler.PostGlobalChatMessage)
	auth.Post("/micromobility/services", handler.RegisterService)
	auth.Post("/micromobility/services/:id/payment", handler.ConfirmPayment)
	auth.Post("/micromobility/services/:id/availability", handler.ToggleAvailability)
	auth.Post("/micromobility/services/:id/occupied", handler.ToggleOccupied)
	auth.Post("/micromobility/services/:id/reviews", handler.SubmitReview)
	auth.Get("/micromobility/ranking", handler.Ranking)

	auth.Get("/map/events", handler.MapEvents)
	auth.Get("/stops/nearest", handler.NearestStop)

	auth.Post("/route", handler.StartRoute)
	auth.Get("/route", handler.GetRoute)
	auth.Delete("/route", handler.ClearRoute)
	auth.Post("/route/summary", handler.SummarizeRoute)
	auth.Post("/assistant", handler.AskAssistant)

	auth.Get("/dashboard", handler.Dashboard)
	auth.Get("/profile", handler.Profile)
	auth.Get("/lines", handler.ListLines)
	auth.Get("/lines/:id/details", handler.LineDetails)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{
			"error": "endpoint not found",
		})
	})

	addr := cfg.Server.ServerAddr()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down gracefully...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("🚀 Server listening on http://%s", addr)
	log.Printf("❤️  Health check: http://%s/health", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// copyBusFixtures gives each session its own mutable bus map
func copyBusFixtures(buses map[string]models.Bus) map[string]models.Bus {
	out := make(map[string]models.Bus, len(buses))
	for id, b := range buses {
		out[id] = b
	}
	return out
}

// customErrorHandler handles errors returned from handlers
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error: %v", err)

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
