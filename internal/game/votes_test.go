package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasco/mafia-agents/internal/domain/participant"
	"github.com/avelasco/mafia-agents/internal/events"
)

// testState builds a Day-phase game with the given roles assigned in id order.
func testState(t *testing.T, roles ...participant.Role) *State {
	t.Helper()
	g := &State{
		numAgents: len(roles),
		phase:     PhaseDay,
		dayCount:  1,
		log:       events.NewLog(nil),
		rng:       rand.New(rand.NewSource(1)),
	}
	for i, r := range roles {
		p := participant.New(i + 1)
		p.Role = r
		if r == participant.RoleMafia {
			g.mafiaMembers = append(g.mafiaMembers, p.ID)
		}
		g.roster = append(g.roster, p)
	}
	return g
}

func lastMessage(t *testing.T, g *State) string {
	t.Helper()
	entries := g.log.Entries()
	require.NotEmpty(t, entries)
	return entries[len(entries)-1].Message
}

func TestTallyVotesPluralityEliminates(t *testing.T) {
	g := testState(t, participant.RoleMafia, participant.RoleVillager, participant.RoleVillager, participant.RoleVillager)
	g.roster[0].PendingVote = 2
	g.roster[1].PendingVote = 1
	g.roster[2].PendingVote = 2
	g.roster[3].PendingVote = 2

	g.tallyVotes()

	assert.False(t, g.roster[1].Alive())
	assert.Equal(t, "Vote result: Player 2 (Villager) has been eliminated.", lastMessage(t, g))

	msgs := g.log.Tail(10)
	assert.Contains(t, msgs, "The votes are in: Player 1: 1, Player 2: 3")
}

func TestTallyVotesTieEliminatesNoOne(t *testing.T) {
	g := testState(t, participant.RoleMafia, participant.RoleVillager, participant.RoleVillager, participant.RoleVillager)
	g.roster[0].PendingVote = 2
	g.roster[1].PendingVote = 1
	g.roster[2].PendingVote = 2
	g.roster[3].PendingVote = 1

	g.tallyVotes()

	for _, p := range g.roster {
		assert.True(t, p.Alive())
	}
	assert.Equal(t, "Vote resulted in a tie! No one is eliminated.", lastMessage(t, g))
}

func TestTallyVotesNoVotes(t *testing.T) {
	g := testState(t, participant.RoleMafia, participant.RoleVillager, participant.RoleVillager)

	g.tallyVotes()

	for _, p := range g.roster {
		assert.True(t, p.Alive())
	}
	assert.Equal(t, "No one was voted out.", lastMessage(t, g))
}

func TestTallyVotesIgnoresDeadVoters(t *testing.T) {
	g := testState(t, participant.RoleMafia, participant.RoleVillager, participant.RoleVillager, participant.RoleVillager)
	g.roster[3].Kill()
	// The dead player's ballot would swing the vote to player 1.
	g.roster[3].PendingVote = 1
	g.roster[0].PendingVote = 2
	g.roster[1].PendingVote = 2
	g.roster[2].PendingVote = 1

	g.tallyVotes()

	assert.True(t, g.roster[0].Alive())
	assert.False(t, g.roster[1].Alive())
}

func TestTallyVotesMissingTargetIsNonFatal(t *testing.T) {
	g := testState(t, participant.RoleMafia, participant.RoleVillager, participant.RoleVillager)
	g.roster[0].PendingVote = 99
	g.roster[1].PendingVote = 99

	g.tallyVotes()

	for _, p := range g.roster {
		assert.True(t, p.Alive())
	}
	assert.Equal(t, "Error: Could not find agent with ID 99 to eliminate.", lastMessage(t, g))
}
