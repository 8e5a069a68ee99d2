package participant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaults(t *testing.T) {
	p := New(4)
	assert.Equal(t, 4, p.ID)
	assert.Equal(t, RoleVillager, p.Role)
	assert.True(t, p.Alive())
	assert.NotEmpty(t, p.Personality)
	assert.NotNil(t, p.Knowledge)
}

func TestPersonalityRotation(t *testing.T) {
	// Same residue, same personality; different residue, different one.
	assert.Equal(t, New(3).Personality, New(6).Personality)
	assert.NotEqual(t, New(1).Personality, New(2).Personality)
	assert.NotEqual(t, New(2).Personality, New(3).Personality)
}

func TestKillIsOneWay(t *testing.T) {
	p := New(1)
	p.Kill()
	assert.False(t, p.Alive())
	p.Kill()
	assert.Equal(t, StatusDead, p.Status)
}

func TestLearn(t *testing.T) {
	p := New(1)
	p.Knowledge = nil
	p.Learn("teammates", []int{3})
	assert.Equal(t, []int{3}, p.Knowledge["teammates"])

	p.Learn("night_1", "Investigated Player 2, who is a Villager.")
	assert.Len(t, p.Knowledge, 2)
}
