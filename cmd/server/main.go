package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"forza-loanapp/internal/adapters/http/middleware"
	"forza-loanapp/internal/adapters/http/routes"
	"forza-loanapp/internal/adapters/persistence/collections"
	"forza-loanapp/internal/adapters/persistence/kvstore"
	"forza-loanapp/internal/config"

	"github.com/gofiber/fiber/v2"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Open the embedded key-value store
	store, err := kvstore.Open(cfg.Storage.Path, cfg.IsDev())
	if err != nil {
		log.Fatalf("❌ Failed to open storage: %v", err)
	}
	defer store.Close()
	log.Printf("✅ Storage opened [%s]", cfg.Storage.Path)

	// Seed the product catalog
	engine := collections.NewEngine(store)
	if err := config.SeedLoanProducts(context.Background(), engine); err != nil {
		log.Printf("⚠️ Warning: Failed to seed loan products: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Forza loan API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (wires stores, services and handlers)
	if err := routes.Setup(app, store, cfg); err != nil {
		log.Fatalf("❌ Failed to set up routes: %v", err)
	}

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
