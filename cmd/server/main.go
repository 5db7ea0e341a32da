package main

import (
	"fmt"
	"log"
	"os"

	"github.com/cartpilot/backend/config"
	httpDelivery "github.com/cartpilot/backend/internal/delivery/http"
	"github.com/cartpilot/backend/internal/infrastructure/browser"
	"github.com/cartpilot/backend/internal/infrastructure/gemini"
	"github.com/cartpilot/backend/internal/infrastructure/storefront"
	"github.com/cartpilot/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting CartPilot Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Storefront: %s", cfg.Storefront.LandingURL)

	// Initialize infrastructure dependencies
	reasoningClient := gemini.NewClient(
		cfg.Gemini.APIKey,
		cfg.Gemini.BaseURL,
		cfg.Gemini.Model,
		cfg.Gemini.Timeout,
		cfg.RateLimit.Gemini,
	)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		reasoningClient.SetDebug(true)
		log.Printf("Gemini client debug mode enabled")
	}

	if len(cfg.Gemini.APIKey) > 8 {
		log.Printf("Gemini model: %s (key: %s...)", cfg.Gemini.Model, cfg.Gemini.APIKey[:8])
	} else {
		log.Printf("Gemini model: %s", cfg.Gemini.Model)
	}

	session, err := browser.NewSession(cfg.Browser)
	if err != nil {
		log.Fatalf("Failed to start browser session: %v", err)
	}
	defer session.Close()

	store := storefront.New(cfg.Storefront, cfg.Automation)

	// Initialize usecase layer
	interpreter := usecase.NewPlanInterpreter(cfg.Automation.SettleDelay, cfg.Automation.WaitTimeout)
	goalRunner := usecase.NewGoalRunner(reasoningClient, interpreter, cfg.Automation.RetryBackoff)
	pipeline := usecase.NewItemPipeline(store, reasoningClient)
	batchService := usecase.NewBatchService(store, pipeline)

	log.Printf("Automation: settle=%s, click=%s, probe=%s, retries=%d",
		cfg.Automation.SettleDelay,
		cfg.Automation.ClickDelay,
		cfg.Automation.ProbeTimeout,
		cfg.Automation.MaxRetries)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(batchService, goalRunner, session)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
