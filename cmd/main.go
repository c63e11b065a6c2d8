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
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"github.com/kodekamper/api/internal/cache"
	"github.com/kodekamper/api/internal/config"
	"github.com/kodekamper/api/internal/db"
	"github.com/kodekamper/api/internal/httperr"
	"github.com/kodekamper/api/internal/middleware"
	"github.com/kodekamper/api/internal/router"
	"github.com/kodekamper/api/internal/storage"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using environment variables")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: httperr.Handler,
		BodyLimit:    10 * 1024 * 1024,
	})

	// Middleware chain: logging, security headers, bot blocking, rate
	// limiting, CORS, then CSRF for state-changing requests.
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(middleware.BotBlocker)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 10 * time.Minute,
	}))
	app.Use(cors.New())
	if config.Env() != "test" {
		app.Use(csrf.New(csrf.Config{
			KeyLookup:      "header:X-Csrf-Token",
			CookieName:     "csrf_token",
			CookieHTTPOnly: true,
			CookieSameSite: fiber.CookieSameSiteStrictMode,
			CookieSecure:   config.IsProduction(),
			Expiration:     1 * time.Hour,
		}))
	}

	// Connect to MongoDB and bootstrap indexes
	db.ConnectMongoDB(config.MongoURI(), config.MongoDBName())

	// Initialize MinIO for photo storage
	storage.InitMinio()

	router.SetupRoutes(app)

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown failed: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			log.Printf("MongoDB close failed: %v", err)
		}
		if err := cache.Close(); err != nil {
			log.Printf("Redis close failed: %v", err)
		}
	}()

	port := config.Getenv("PORT", "5000")
	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
