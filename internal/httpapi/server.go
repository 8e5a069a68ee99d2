// Package httpapi exposes the game over HTTP. The singleton routes mirror a
// one-game-at-a-time frontend: start replaces the current game, state and
// step act on it. The /api/games routes address games by id for anything
// running more than one simulation.
package httpapi

import (
	"context"
	"time"

	"github.com/avelasco/mafia-agents/internal/events"
	"github.com/avelasco/mafia-agents/internal/game"
	"github.com/avelasco/mafia-agents/internal/infra/storage"
	"github.com/avelasco/mafia-agents/internal/network"
	"github.com/avelasco/mafia-agents/internal/platform/logger"
	"github.com/google/uuid"
)

// Server wires the engine, registry, spectator hub and persistence together
// behind the HTTP handlers.
type Server struct {
	engine     *game.Engine
	registry   *game.Registry
	hub        *network.Hub
	logger     *logger.Logger
	eventRepo  storage.EventRepository
	resultRepo storage.ResultRepository

	// seed, when nonzero, makes every created game deterministic.
	seed int64
}

// NewServer creates the HTTP server wiring. Repositories may be nil, in which
// case games run purely in memory.
func NewServer(engine *game.Engine, registry *game.Registry, hub *network.Hub, log *logger.Logger,
	eventRepo storage.EventRepository, resultRepo storage.ResultRepository, seed int64) *Server {
	return &Server{
		engine:     engine,
		registry:   registry,
		hub:        hub,
		logger:     log,
		eventRepo:  eventRepo,
		resultRepo: resultRepo,
		seed:       seed,
	}
}

// createGame builds a fresh game with its own persisted event log and
// registers it as the default.
func (s *Server) createGame(numAgents int) (*game.State, error) {
	id := uuid.New().String()

	var persister events.Persister
	if s.eventRepo != nil {
		persister = storage.NewLedgerPersister(id, s.eventRepo)
	}
	log := events.NewLog(persister)

	seed := s.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g, err := s.engine.NewGame(id, numAgents, seed, log)
	if err != nil {
		return nil, err
	}

	s.registry.Put(g)
	if s.hub != nil {
		s.hub.Watch(log)
	}
	s.persistGame(g)
	return g, nil
}

// persistGame writes the game summary, and at End the revealed roster too.
func (s *Server) persistGame(g *game.State) {
	if s.resultRepo == nil {
		return
	}

	snap := s.engine.Snapshot(g)
	rec := storage.GameRecord{
		GameID:    g.ID(),
		NumAgents: snap.NumAgents,
		Phase:     snap.Phase,
		DayCount:  snap.DayCount,
		Winner:    snap.Winner,
		CreatedAt: time.Now(),
	}
	if snap.Phase == string(game.PhaseEnd) {
		now := time.Now()
		rec.FinishedAt = &now
	}

	ctx := context.Background()
	if err := s.resultRepo.UpsertGame(ctx, rec); err != nil {
		s.logger.Error("failed to persist game %s: %v", g.ID(), err)
		return
	}

	if rec.FinishedAt == nil {
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
	if err := s.resultRepo.UpsertParticipants(ctx, recs); err != nil {
		s.logger.Error("failed to persist roster for game %s: %v", g.ID(), err)
	}
}
