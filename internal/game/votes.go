package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/avelasco/mafia-agents/internal/platform/metrics"
)

// tallyVotes counts the pending votes of living players and eliminates the
// unique plurality target. Ties and empty ballots eliminate no one; a vote
// for an id not in the roster is logged as an internal anomaly and skipped.
// Caller must hold g.mu.
func (g *State) tallyVotes() {
	votes := make(map[int]int)
	for _, p := range g.aliveParticipants() {
		if p.PendingVote != 0 {
			votes[p.PendingVote]++
		}
	}

	if len(votes) == 0 {
		g.appendEvent("No one was voted out.")
		return
	}

	// Deterministic histogram line, sorted by candidate id.
	ids := make([]int, 0, len(votes))
	for id := range votes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("Player %d: %d", id, votes[id]))
	}
	g.appendEvent("The votes are in: " + strings.Join(parts, ", "))

	maxVotes := 0
	target := 0
	tie := false
	for _, id := range ids {
		switch {
		case votes[id] > maxVotes:
			maxVotes = votes[id]
			target = id
			tie = false
		case votes[id] == maxVotes:
			tie = true
		}
	}

	if tie {
		g.appendEvent("Vote resulted in a tie! No one is eliminated.")
		return
	}

	victim := g.findParticipant(target)
	if victim == nil {
		g.appendEvent(fmt.Sprintf("Error: Could not find agent with ID %d to eliminate.", target))
		return
	}

	victim.Kill()
	metrics.Get().RecordElimination()
	g.appendEvent(fmt.Sprintf("Vote result: Player %d (%s) has been eliminated.", victim.ID, victim.Role))
}
