package game

import (
	"fmt"

	"github.com/avelasco/mafia-agents/internal/domain/participant"
)

// Counts is the role distribution for a roster size.
type Counts struct {
	Mafia    int
	Doctor   int
	Cop      int
	Villager int
}

// RoleCounts computes the role distribution for n players: one Mafia per four
// players rounded up, a Doctor from five players, a Cop from six.
func RoleCounts(n int) (Counts, error) {
	if n < 3 {
		return Counts{}, fmt.Errorf("%w: need at least 3 players, got %d", ErrInvalidConfiguration, n)
	}

	c := Counts{Mafia: (n + 3) / 4}
	if n >= 5 {
		c.Doctor = 1
	}
	if n >= 6 {
		c.Cop = 1
	}
	c.Villager = n - c.Mafia - c.Doctor - c.Cop
	return c, nil
}

// assignRoles builds the roster, shuffles the role labels with the game's
// seeded source, and hands each Mafia member the ids of their teammates.
// Caller must hold g.mu.
func (g *State) assignRoles() error {
	counts, err := RoleCounts(g.numAgents)
	if err != nil {
		return err
	}

	labels := make([]participant.Role, 0, g.numAgents)
	for i := 0; i < counts.Mafia; i++ {
		labels = append(labels, participant.RoleMafia)
	}
	for i := 0; i < counts.Doctor; i++ {
		labels = append(labels, participant.RoleDoctor)
	}
	for i := 0; i < counts.Cop; i++ {
		labels = append(labels, participant.RoleCop)
	}
	for i := 0; i < counts.Villager; i++ {
		labels = append(labels, participant.RoleVillager)
	}

	g.rng.Shuffle(len(labels), func(i, j int) {
		labels[i], labels[j] = labels[j], labels[i]
	})

	g.roster = make([]*participant.Participant, 0, g.numAgents)
	g.mafiaMembers = nil
	for i := 0; i < g.numAgents; i++ {
		p := participant.New(i + 1)
		p.Role = labels[i]
		if p.Role == participant.RoleMafia {
			g.mafiaMembers = append(g.mafiaMembers, p.ID)
		}
		g.roster = append(g.roster, p)
	}

	// Mafia know each other from the first night.
	for _, p := range g.roster {
		if p.Role != participant.RoleMafia {
			continue
		}
		teammates := make([]int, 0, len(g.mafiaMembers)-1)
		for _, id := range g.mafiaMembers {
			if id != p.ID {
				teammates = append(teammates, id)
			}
		}
		p.Learn("teammates", teammates)
	}

	g.phase = PhaseDay
	g.appendEvent("Game starting! Roles have been assigned.")
	return nil
}
