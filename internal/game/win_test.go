package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avelasco/mafia-agents/internal/domain/participant"
)

func TestCheckWinTownWins(t *testing.T) {
	g := testState(t, participant.RoleMafia, participant.RoleVillager, participant.RoleVillager)
	g.roster[0].Kill()

	assert.True(t, g.checkWin())
	assert.Equal(t, "Town", g.winner)
	assert.Equal(t, PhaseEnd, g.phase)
	assert.Equal(t, "Game Over! The Town has eliminated the Mafia and won!", lastMessage(t, g))
}

func TestCheckWinMafiaWins(t *testing.T) {
	g := testState(t, participant.RoleMafia, participant.RoleVillager, participant.RoleVillager)
	g.roster[1].Kill()
	g.roster[2].Kill()

	assert.True(t, g.checkWin())
	assert.Equal(t, "Mafia", g.winner)
	assert.Equal(t, "Game Over! The Mafia have taken over and won!", lastMessage(t, g))
}

func TestCheckWinMafiaWinsOnParity(t *testing.T) {
	g := testState(t, participant.RoleMafia, participant.RoleVillager, participant.RoleVillager)
	g.roster[1].Kill()

	assert.True(t, g.checkWin())
	assert.Equal(t, "Mafia", g.winner)
}

func TestCheckWinGameContinues(t *testing.T) {
	g := testState(t, participant.RoleMafia, participant.RoleVillager, participant.RoleVillager)

	assert.False(t, g.checkWin())
	assert.Empty(t, g.winner)
	assert.Equal(t, PhaseDay, g.phase)
}

func TestCheckWinTownPrecedence(t *testing.T) {
	// With everyone dead, zero Mafia alive means the Town takes it.
	g := testState(t, participant.RoleMafia, participant.RoleVillager)
	g.roster[0].Kill()
	g.roster[1].Kill()

	assert.True(t, g.checkWin())
	assert.Equal(t, "Town", g.winner)
}
