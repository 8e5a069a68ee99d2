// Package game implements the Mafia simulation core: role assignment, the
// Day/Night state machine, vote tallying, night-action resolution, and win
// evaluation. All randomness flows through one seeded source per game, so a
// game driven by a deterministic decision provider replays identically.
package game

import (
	"math/rand"
	"sync"

	"github.com/avelasco/mafia-agents/internal/domain/participant"
	"github.com/avelasco/mafia-agents/internal/events"
)

// Phase is the current stage of the game state machine.
type Phase string

const (
	PhaseSetup Phase = "Setup"
	PhaseDay   Phase = "Day"
	PhaseNight Phase = "Night"
	PhaseEnd   Phase = "End"
)

// State holds everything about one running game. It is mutated only by the
// engine, which holds mu across every Step and Snapshot: single writer, no
// partial phases ever observable.
type State struct {
	mu sync.Mutex

	id        string
	numAgents int
	phase     Phase
	dayCount  int

	roster       []*participant.Participant
	mafiaMembers []int

	// Night-action accumulators, cleared after each resolution.
	nightKillTarget *participant.Participant
	nightSaveTarget *participant.Participant

	winner string

	log *events.Log
	rng *rand.Rand
}

// ID returns the registry id of this game.
func (g *State) ID() string {
	return g.id
}

// Winner returns "Town" or "Mafia" once the game has ended, else "".
func (g *State) Winner() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winner
}

// Ended reports whether the game has reached the End phase.
func (g *State) Ended() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase == PhaseEnd
}

// EventLog exposes the game's event log for spectator streaming.
func (g *State) EventLog() *events.Log {
	return g.log
}

// appendEvent records a narrated event stamped with the current day and phase.
func (g *State) appendEvent(msg string) {
	g.log.Append(events.Entry{Day: g.dayCount, Phase: string(g.phase), Message: msg})
}

// aliveParticipants returns living players in roster order.
func (g *State) aliveParticipants() []*participant.Participant {
	out := make([]*participant.Participant, 0, len(g.roster))
	for _, p := range g.roster {
		if p.Alive() {
			out = append(out, p)
		}
	}
	return out
}

// findParticipant returns the roster entry with the given id, or nil.
func (g *State) findParticipant(id int) *participant.Participant {
	for _, p := range g.roster {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Snapshot is the observer-facing view of a game. Living players' roles stay
// hidden until death, and knowledge stays hidden until the game ends.
type Snapshot struct {
	NumAgents int             `json:"num_agents"`
	Phase     string          `json:"game_phase"`
	DayCount  int             `json:"day_count"`
	Winner    string          `json:"winner,omitempty"`
	EventLog  []events.Entry  `json:"event_log"`
	Agents    []AgentSnapshot `json:"agents"`
}

// AgentSnapshot is the observer-facing view of a single participant.
type AgentSnapshot struct {
	ID        int            `json:"id"`
	Status    string         `json:"status"`
	Role      string         `json:"role"`
	Knowledge map[string]any `json:"knowledge"`
}

// snapshotLocked builds the observer view. Caller must hold g.mu.
func (g *State) snapshotLocked() Snapshot {
	snap := Snapshot{
		NumAgents: g.numAgents,
		Phase:     string(g.phase),
		DayCount:  g.dayCount,
		Winner:    g.winner,
		EventLog:  g.log.Entries(),
		Agents:    make([]AgentSnapshot, 0, len(g.roster)),
	}

	ended := g.phase == PhaseEnd
	for _, p := range g.roster {
		a := AgentSnapshot{
			ID:        p.ID,
			Status:    string(p.Status),
			Role:      participant.RoleUnknown,
			Knowledge: map[string]any{},
		}
		if ended || !p.Alive() {
			a.Role = string(p.Role)
		}
		if ended {
			for k, v := range p.Knowledge {
				a.Knowledge[k] = v
			}
		}
		snap.Agents = append(snap.Agents, a)
	}
	return snap
}
