// Package main - autoplay
// Runs one full Mafia game to completion without a server, printing the
// narration and dumping the final state to a JSON file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/avelasco/mafia-agents/internal/agents"
	"github.com/avelasco/mafia-agents/internal/events"
	"github.com/avelasco/mafia-agents/internal/game"
	"github.com/avelasco/mafia-agents/internal/infra/ai"
	"github.com/avelasco/mafia-agents/internal/infra/storage"
	"github.com/avelasco/mafia-agents/internal/platform/config"
	"github.com/avelasco/mafia-agents/internal/platform/logger"
)

func main() {
	players := flag.Int("players", 7, "Number of players in the game")
	seed := flag.Int64("seed", 0, "RNG seed (0 = derive from clock)")
	out := flag.String("out", "mafia_game_log.json", "Path for the final state JSON dump")
	dbPath := flag.String("db", "", "Optional SQLite path to persist the game")
	flag.Parse()

	cfg := config.Load()
	appLogger := logger.NewLogger()

	if *seed == 0 {
		if cfg.Seed != 0 {
			*seed = cfg.Seed
		} else {
			*seed = time.Now().UnixNano()
		}
	}

	provider := pickProvider(cfg, appLogger, *seed)
	engine := game.NewEngine(provider, appLogger)

	var persister events.Persister
	var resultRepo storage.ResultRepository
	gameID := ""
	if *dbPath != "" {
		db, err := storage.InitSQLite(*dbPath)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		gameID = fmt.Sprintf("autoplay-%d", time.Now().Unix())
		persister = storage.NewLedgerPersister(gameID, storage.NewSQLiteEventRepository(db))
		resultRepo = storage.NewSQLiteResultRepository(db)
	}

	eventLog := events.NewLog(persister)
	g, err := engine.NewGame(gameID, *players, *seed, eventLog)
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}

	appLogger.Info("Running game %s with %d players (seed %d)...", g.ID(), *players, *seed)
	if err := engine.RunToCompletion(context.Background(), g); err != nil {
		log.Fatalf("Game aborted: %v", err)
	}

	for _, e := range eventLog.Entries() {
		fmt.Printf("[Day %d | %s] %s\n", e.Day, e.Phase, e.Message)
	}
	fmt.Printf("\nWinner: %s\n", g.Winner())

	snap := engine.Snapshot(g)
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal final state: %v", err)
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}
	fmt.Printf("Final state written to %s\n", *out)

	if resultRepo != nil {
		persistResult(resultRepo, g, snap)
	}
}

func pickProvider(cfg config.Config, appLogger *logger.Logger, seed int64) agents.DecisionProvider {
	budgetGate := ai.NewBudgetGate(cfg.DailyBudgetUSD, cfg.MonthlyBudgetUSD)

	if g := ai.NewGeminiProvider(budgetGate); g.IsAvailable() {
		appLogger.Info("Agent decisions backed by %s", g.Name())
		return agents.NewLLMDecisionProvider(g)
	}
	if a := ai.NewAnthropicProvider(budgetGate); a.IsAvailable() {
		appLogger.Info("Agent decisions backed by %s", a.Name())
		return agents.NewLLMDecisionProvider(a)
	}

	appLogger.Warn("No LLM API key configured. Agents will act randomly.")
	return agents.NewRandomProvider(seed)
}

func persistResult(repo storage.ResultRepository, g *game.State, snap game.Snapshot) {
	ctx := context.Background()
	now := time.Now()
	rec := storage.GameRecord{
		GameID:     g.ID(),
		NumAgents:  snap.NumAgents,
		Phase:      snap.Phase,
		DayCount:   snap.DayCount,
		Winner:     snap.Winner,
		CreatedAt:  now,
		FinishedAt: &now,
	}
	if err := repo.UpsertGame(ctx, rec); err != nil {
		log.Printf("Failed to persist game: %v", err)
		return
	}

	recs := make([]storage.ParticipantRecord, 0, len(snap.Agents))
	for _, a := range snap.Agents {
		recs = append(recs, storage.ParticipantRecord{
			GameID: g.ID(),
			ID:     a.ID,
			Role:   a.Role,
			Status: a.Status,
		})
	}
	if err := repo.UpsertParticipants(ctx, recs); err != nil {
		log.Printf("Failed to persist roster: %v", err)
	}
}
