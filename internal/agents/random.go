package agents

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/avelasco/mafia-agents/internal/domain/participant"
)

// RandomProvider makes uniformly random choices. It backs games run without
// an API key and every deterministic test: seed it and the whole game replays
// identically.
type RandomProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomProvider creates a random decision provider with the given seed.
func NewRandomProvider(seed int64) *RandomProvider {
	return &RandomProvider{rng: rand.New(rand.NewSource(seed))}
}

// Discuss returns a canned filler line.
func (p *RandomProvider) Discuss(ctx context.Context, playerID int, gc GameContext) (string, error) {
	return "I'm not sure what to say. The pressure is getting to me.", nil
}

// Vote picks a random candidate.
func (p *RandomProvider) Vote(ctx context.Context, playerID int, gc GameContext, candidates []int) (int, error) {
	return p.pick(candidates)
}

// NightAction picks a random candidate regardless of role.
func (p *RandomProvider) NightAction(ctx context.Context, playerID int, role participant.Role, gc GameContext, candidates []int) (int, error) {
	return p.pick(candidates)
}

func (p *RandomProvider) pick(candidates []int) (int, error) {
	if len(candidates) == 0 {
		return 0, fmt.Errorf("no candidates to choose from")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return candidates[p.rng.Intn(len(candidates))], nil
}

var _ DecisionProvider = (*RandomProvider)(nil)
