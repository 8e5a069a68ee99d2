package game

import (
	"fmt"

	"github.com/avelasco/mafia-agents/internal/domain/participant"
	"github.com/avelasco/mafia-agents/internal/platform/metrics"
)

// Acknowledgment lines published when a night role acts. They reveal that an
// action happened without revealing who acted or on whom.
const (
	ackMafiaChose  = "The Mafia have chosen their target."
	ackDoctorChose = "The Doctor has chosen someone to protect."
	ackCopChose    = "The Cop has chosen someone to investigate."
)

// recordNightAction applies one player's night choice to the accumulators.
// Caller must hold g.mu.
func (g *State) recordNightAction(p *participant.Participant, targetID int) {
	target := g.findParticipant(targetID)
	if target == nil {
		g.appendEvent(fmt.Sprintf("Player %d (%s) tried to target non-existent player %d.", p.ID, p.Role, targetID))
		return
	}

	switch p.Role {
	case participant.RoleMafia:
		// First living Mafia in roster order wins; later picks are ignored.
		if g.nightKillTarget == nil {
			g.nightKillTarget = target
		}
		g.ackNightAction(ackMafiaChose)
	case participant.RoleDoctor:
		g.nightSaveTarget = target
		g.ackNightAction(ackDoctorChose)
	case participant.RoleCop:
		p.Learn(fmt.Sprintf("night_%d", g.dayCount),
			fmt.Sprintf("Investigated Player %d, who is a %s.", target.ID, target.Role))
		g.ackNightAction(ackCopChose)
	}
}

// ackNightAction logs an acknowledgment unless it already appears in the last
// few entries. Two Mafia acting the same night produce one line, not two.
func (g *State) ackNightAction(msg string) {
	if !g.log.ContainsRecent(msg, 3) {
		g.appendEvent(msg)
	}
}

// resolveNight applies the accumulated kill and save and clears both targets.
// Caller must hold g.mu.
func (g *State) resolveNight() {
	switch {
	case g.nightKillTarget == nil:
		g.appendEvent("The night was quiet... surprisingly.")
	case g.nightKillTarget == g.nightSaveTarget:
		g.appendEvent("Someone was attacked, but the Doctor saved them!")
	default:
		g.nightKillTarget.Kill()
		metrics.Get().RecordNightKill()
		g.appendEvent(fmt.Sprintf("A body has been discovered... Player %d (was a %s) was killed during the night.",
			g.nightKillTarget.ID, g.nightKillTarget.Role))
	}

	g.nightKillTarget = nil
	g.nightSaveTarget = nil
}
