package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neuraldiscourse-backend/internal/api"
	"neuraldiscourse-backend/internal/config"
	"neuraldiscourse-backend/internal/handlers"
	"neuraldiscourse-backend/internal/orchestrator"
	"neuraldiscourse-backend/internal/providers"
	"neuraldiscourse-backend/internal/services"
	"neuraldiscourse-backend/internal/store/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	log.Println("Starting Neural Discourse Backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Initialize Database Connection Pool
	dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer dbCancel()

	dbpool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Unable to create database connection pool: %v\n", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(dbCtx); err != nil {
		log.Fatalf("FATAL: Unable to ping database: %v\n", err)
	}
	log.Println("Database connection pool established and pinged successfully.")

	// 3. Initialize Dependencies (Store, Registry, Runner, Services, Handlers)
	pgStore := postgres.NewPostgresStore(dbpool)
	if err := pgStore.InitSchema(dbCtx); err != nil {
		log.Fatalf("FATAL: Failed to initialize database schema: %v", err)
	}
	log.Println("Postgres store initialized.")

	registry := providers.NewRegistry(providers.DefaultKeys{
		Anthropic: cfg.AnthropicKey,
		Groq:      cfg.GroqKey,
		OpenAI:    cfg.OpenAIKey,
		XAI:       cfg.XAIKey,
	})
	log.Println("Provider registry initialized.")

	runner := orchestrator.NewRunner(pgStore, registry, cfg.TurnDelay)
	log.Println("Orchestration runner initialized.")

	conversationService := services.NewConversationService(pgStore, runner)
	log.Println("ConversationService initialized.")
	modelService := services.NewModelService(registry)
	log.Println("ModelService initialized.")

	conversationHandler := handlers.NewConversationHandlers(conversationService)
	modelHandler := handlers.NewModelHandlers(modelService)
	log.Println("Handlers initialized.")

	// 4. Setup Router & Inject Dependencies
	routerDeps := api.RouterDependencies{
		ConversationHandler: conversationHandler,
		ModelHandler:        modelHandler,
		Config:              cfg,
	}
	router := api.NewRouter(routerDeps)
	log.Println("HTTP router configured.")

	// 5. Configure and Start HTTP Server
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
		// Run responses stream for minutes, so no WriteTimeout here; slow
		// request reads are still bounded.
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	// Channel to listen for OS signals for graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	// Run server in a goroutine so it doesn't block
	go func() {
		log.Printf("Server starting and listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Could not listen on %s: %v\n", cfg.HTTPPort, err)
		}
		log.Println("Server listener routine stopped.")
	}()

	// Wait for interrupt signal
	<-stopChan
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: Server graceful shutdown failed: %v", err)
	}

	log.Println("Server shutdown complete.")
}
