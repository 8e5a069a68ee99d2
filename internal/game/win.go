package game

import "github.com/avelasco/mafia-agents/internal/domain/participant"

// checkWin evaluates the two win conditions and, if one holds, ends the game.
// Town elimination of the Mafia is checked first: with zero Mafia alive the
// Town has won even if they are outnumbered on paper. Caller must hold g.mu.
func (g *State) checkWin() bool {
	var aliveMafia, aliveOthers int
	for _, p := range g.aliveParticipants() {
		if p.Role == participant.RoleMafia {
			aliveMafia++
		} else {
			aliveOthers++
		}
	}

	switch {
	case aliveMafia == 0:
		g.winner = "Town"
		g.phase = PhaseEnd
		g.appendEvent("Game Over! The Town has eliminated the Mafia and won!")
		return true
	case aliveMafia >= aliveOthers:
		g.winner = "Mafia"
		g.phase = PhaseEnd
		g.appendEvent("Game Over! The Mafia have taken over and won!")
		return true
	}
	return false
}
