package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasco/mafia-agents/internal/domain/participant"
)

func TestRandomProviderVotesWithinCandidates(t *testing.T) {
	p := NewRandomProvider(1)
	candidates := []int{2, 5, 7}

	for i := 0; i < 50; i++ {
		got, err := p.Vote(context.Background(), 1, GameContext{}, candidates)
		require.NoError(t, err)
		assert.Contains(t, candidates, got)
	}
}

func TestRandomProviderDeterministicPerSeed(t *testing.T) {
	run := func() []int {
		p := NewRandomProvider(42)
		out := make([]int, 0, 20)
		for i := 0; i < 20; i++ {
			got, err := p.NightAction(context.Background(), 1, participant.RoleMafia, GameContext{}, []int{2, 3, 4, 5})
			require.NoError(t, err)
			out = append(out, got)
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func TestRandomProviderNoCandidates(t *testing.T) {
	p := NewRandomProvider(1)
	_, err := p.Vote(context.Background(), 1, GameContext{}, nil)
	assert.Error(t, err)
}

func TestRandomProviderDiscussIsCanned(t *testing.T) {
	p := NewRandomProvider(1)
	got, err := p.Discuss(context.Background(), 4, GameContext{})
	require.NoError(t, err)
	assert.Equal(t, "I'm not sure what to say. The pressure is getting to me.", got)
}
