// Package main is the entry point for the Mafia game server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avelasco/mafia-agents/internal/agents"
	"github.com/avelasco/mafia-agents/internal/game"
	"github.com/avelasco/mafia-agents/internal/httpapi"
	"github.com/avelasco/mafia-agents/internal/infra/ai"
	"github.com/avelasco/mafia-agents/internal/infra/storage"
	"github.com/avelasco/mafia-agents/internal/network"
	"github.com/avelasco/mafia-agents/internal/platform/config"
	"github.com/avelasco/mafia-agents/internal/platform/logger"
)

func main() {
	log.Println("[MAFIA-SERVER] Initializing AI Mafia simulation server...")

	cfg := config.Load()
	appLogger := logger.NewLogger()

	appLogger.Info("Initializing SQLite database %q...", cfg.DBPath)
	db, err := storage.InitSQLite(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: %v", err)
		os.Exit(1)
	}
	eventRepo := storage.NewSQLiteEventRepository(db)
	resultRepo := storage.NewSQLiteResultRepository(db)

	provider := buildDecisionProvider(cfg, appLogger)

	engine := game.NewEngine(provider, appLogger)
	registry := game.NewRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(appLogger)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx)

	apiServer := httpapi.NewServer(engine, registry, hub, appLogger, eventRepo, resultRepo, cfg.Seed)
	router := httpapi.NewRouter(apiServer)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		appLogger.Info("HTTP API & WS server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server shutdown error: %v", err)
	}
}

// buildDecisionProvider picks the agent backend: a configured LLM when a key
// is present, otherwise seeded random agents so the game still runs.
func buildDecisionProvider(cfg config.Config, appLogger *logger.Logger) agents.DecisionProvider {
	budgetGate := ai.NewBudgetGate(cfg.DailyBudgetUSD, cfg.MonthlyBudgetUSD)

	var llm ai.LLMProvider
	switch cfg.LLMProvider {
	case "gemini":
		llm = ai.NewGeminiProvider(budgetGate)
	case "anthropic":
		llm = ai.NewAnthropicProvider(budgetGate)
	case "random":
		// Forced offline mode.
	default:
		if g := ai.NewGeminiProvider(budgetGate); g.IsAvailable() {
			llm = g
		} else if a := ai.NewAnthropicProvider(budgetGate); a.IsAvailable() {
			llm = a
		}
	}

	if llm != nil && llm.IsAvailable() {
		appLogger.Info("Agent decisions backed by %s", llm.Name())
		return agents.NewLLMDecisionProvider(llm)
	}

	appLogger.Warn("No LLM API key configured. Agents will act randomly.")
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return agents.NewRandomProvider(seed)
}
