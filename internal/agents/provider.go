// Package agents defines the decision boundary of the simulation: who says
// what, who votes for whom, who gets targeted at night. The engine depends
// only on DecisionProvider, so LLM-backed agents and deterministic random
// agents are interchangeable.
package agents

import (
	"context"

	"github.com/avelasco/mafia-agents/internal/domain/participant"
)

// GameContext is the situational snapshot handed to an agent for a single
// decision. It contains only what the deciding player is allowed to know.
type GameContext struct {
	Day          int
	Phase        string
	AliveIDs     []int
	DeadSummary  []string
	Role         string
	Personality  string
	Knowledge    map[string]any
	RecentEvents []string
}

// FallbackUtterance is what an agent "says" when its backend fails.
const FallbackUtterance = "I'm speechless... (An error occurred)"

// DecisionProvider produces the three kinds of agent decisions the engine
// needs. Implementations must be safe for sequential use from one goroutine;
// the engine never calls a provider concurrently for the same game.
type DecisionProvider interface {
	// Discuss returns one line of table talk for the Day discussion.
	Discuss(ctx context.Context, playerID int, gc GameContext) (string, error)

	// Vote returns the id of the candidate this player votes to eliminate.
	// The returned id must come from candidates.
	Vote(ctx context.Context, playerID int, gc GameContext, candidates []int) (int, error)

	// NightAction returns the target for a role's night power: the Mafia
	// kill, the Doctor save, or the Cop investigation.
	NightAction(ctx context.Context, playerID int, role participant.Role, gc GameContext, candidates []int) (int, error)
}
