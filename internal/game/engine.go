package game

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/avelasco/mafia-agents/internal/agents"
	"github.com/avelasco/mafia-agents/internal/domain/participant"
	"github.com/avelasco/mafia-agents/internal/events"
	"github.com/avelasco/mafia-agents/internal/platform/logger"
	"github.com/avelasco/mafia-agents/internal/platform/metrics"
)

// recentEventWindow is how many log messages agents see in their context.
const recentEventWindow = 15

// Engine drives games forward. It owns no game state itself; every game is a
// *State and the engine serializes access through the game's mutex.
type Engine struct {
	provider agents.DecisionProvider
	logger   *logger.Logger
}

// NewEngine creates an engine backed by the given decision provider.
func NewEngine(provider agents.DecisionProvider, log *logger.Logger) *Engine {
	return &Engine{provider: provider, logger: log}
}

// NewGame creates a game with numAgents players, assigns roles with the
// seeded source, and leaves the game in the Day phase ready for Step.
// An empty id gets a fresh UUID; callers that persist the event ledger pass
// the id they already bound to the log's persister.
func (e *Engine) NewGame(id string, numAgents int, seed int64, log *events.Log) (*State, error) {
	if id == "" {
		id = uuid.New().String()
	}
	g := &State{
		id:        id,
		numAgents: numAgents,
		phase:     PhaseSetup,
		log:       log,
		rng:       rand.New(rand.NewSource(seed)),
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.assignRoles(); err != nil {
		return nil, err
	}

	metrics.Get().RecordGameStarted()
	e.logger.Event("GAME_CREATED", g.id, fmt.Sprintf("%d agents, seed %d", numAgents, seed))
	return g, nil
}

// Step advances the game one full round: a Day (discussion, votes, tally,
// win check) followed, if the game survives, by a Night (actions, resolution,
// win check). Stepping an ended game is a no-op.
func (e *Engine) Step(ctx context.Context, g *State) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase == PhaseEnd {
		return nil
	}

	metrics.Get().RecordStep()

	e.runDay(ctx, g)
	if g.checkWin() {
		metrics.Get().RecordGameFinished()
		e.logger.Event("GAME_OVER", g.id, g.winner)
		return ctx.Err()
	}

	e.runNight(ctx, g)
	if g.checkWin() {
		metrics.Get().RecordGameFinished()
		e.logger.Event("GAME_OVER", g.id, g.winner)
		return ctx.Err()
	}

	g.phase = PhaseDay
	return ctx.Err()
}

// Snapshot returns the observer view of a game.
func (e *Engine) Snapshot(g *State) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// RunToCompletion steps the game until someone wins, then logs the final role
// reveal. Used by the autoplay CLI and by tests.
func (e *Engine) RunToCompletion(ctx context.Context, g *State) error {
	for !g.Ended() {
		if err := e.Step(ctx, g); err != nil {
			return err
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.appendEvent("Final Roles:")
	for _, p := range g.roster {
		g.appendEvent(fmt.Sprintf("Player %d: %s", p.ID, p.Role))
	}
	return nil
}

// runDay executes one Day phase. Caller must hold g.mu.
func (e *Engine) runDay(ctx context.Context, g *State) {
	g.phase = PhaseDay
	g.dayCount++
	g.appendEvent(fmt.Sprintf("--- Day %d ---", g.dayCount))

	for _, p := range g.roster {
		p.PendingVote = 0
	}

	// Discussion round: each living player speaks once, in roster order. The
	// placeholder entry is replaced in place so spectators see progress.
	for _, p := range g.aliveParticipants() {
		g.appendEvent(fmt.Sprintf("Player %d is thinking...", p.ID))

		metrics.Get().RecordDecisionCall()
		utterance, err := e.provider.Discuss(ctx, p.ID, e.gameContext(g, p))
		if err != nil || utterance == "" {
			metrics.Get().RecordDecisionFallback()
			e.logger.Warn("discussion failed for player %d: %v", p.ID, err)
			utterance = agents.FallbackUtterance
		}
		g.log.UpdateLast(fmt.Sprintf("Player %d: %q", p.ID, utterance))
	}

	// Voting round. A provider failure or an answer outside the candidate
	// set falls back to a uniform random candidate; the game never stalls
	// on a bad decision.
	for _, p := range g.aliveParticipants() {
		candidates := g.voteCandidates(p)
		if len(candidates) == 0 {
			continue
		}

		g.appendEvent(fmt.Sprintf("Player %d is considering their vote...", p.ID))

		metrics.Get().RecordDecisionCall()
		target, err := e.provider.Vote(ctx, p.ID, e.gameContext(g, p), candidates)
		if err != nil || !containsID(candidates, target) {
			metrics.Get().RecordDecisionFallback()
			e.logger.Warn("vote failed for player %d: %v", p.ID, err)
			target = candidates[g.rng.Intn(len(candidates))]
			g.log.UpdateLast(fmt.Sprintf("Player %d (AI error/fallback) randomly voted for Player %d.", p.ID, target))
		} else {
			g.log.UpdateLast(fmt.Sprintf("Player %d has cast a vote for Player %d.", p.ID, target))
		}
		p.PendingVote = target
	}

	g.tallyVotes()
}

// runNight executes one Night phase. Caller must hold g.mu.
func (e *Engine) runNight(ctx context.Context, g *State) {
	g.phase = PhaseNight
	g.appendEvent(fmt.Sprintf("--- Night %d ---", g.dayCount))
	g.appendEvent("Night falls... Actions are being taken in secret.")

	for _, p := range g.aliveParticipants() {
		candidates := g.nightCandidates(p)
		if len(candidates) == 0 {
			continue
		}

		metrics.Get().RecordDecisionCall()
		target, err := e.provider.NightAction(ctx, p.ID, p.Role, e.gameContext(g, p), candidates)
		if err != nil || !containsID(candidates, target) {
			metrics.Get().RecordDecisionFallback()
			e.logger.Warn("night action failed for player %d (%s): %v", p.ID, p.Role, err)
			target = candidates[g.rng.Intn(len(candidates))]
		}
		g.recordNightAction(p, target)
	}

	g.resolveNight()
}

// voteCandidates returns the living players this voter may vote for:
// everyone alive except themselves.
func (g *State) voteCandidates(voter *participant.Participant) []int {
	out := make([]int, 0, g.numAgents)
	for _, p := range g.aliveParticipants() {
		if p.ID != voter.ID {
			out = append(out, p.ID)
		}
	}
	return out
}

// nightCandidates returns the legal targets for a player's night power, or
// nil if the role has none. The Doctor may protect themselves; the Mafia and
// the Cop target others only.
func (g *State) nightCandidates(actor *participant.Participant) []int {
	switch actor.Role {
	case participant.RoleMafia, participant.RoleCop:
		out := make([]int, 0, g.numAgents)
		for _, p := range g.aliveParticipants() {
			if p.ID != actor.ID {
				out = append(out, p.ID)
			}
		}
		return out
	case participant.RoleDoctor:
		out := make([]int, 0, g.numAgents)
		for _, p := range g.aliveParticipants() {
			out = append(out, p.ID)
		}
		return out
	default:
		return nil
	}
}

// gameContext builds the decision context for one player: only public
// information plus the player's own secrets.
func (e *Engine) gameContext(g *State, p *participant.Participant) agents.GameContext {
	alive := make([]int, 0, g.numAgents)
	dead := make([]string, 0, g.numAgents)
	for _, q := range g.roster {
		if q.Alive() {
			alive = append(alive, q.ID)
		} else {
			dead = append(dead, fmt.Sprintf("Player %d (was %s)", q.ID, q.Role))
		}
	}

	knowledge := make(map[string]any, len(p.Knowledge))
	for k, v := range p.Knowledge {
		knowledge[k] = v
	}

	return agents.GameContext{
		Day:          g.dayCount,
		Phase:        string(g.phase),
		AliveIDs:     alive,
		DeadSummary:  dead,
		Role:         string(p.Role),
		Personality:  p.Personality,
		Knowledge:    knowledge,
		RecentEvents: g.log.Tail(recentEventWindow),
	}
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
