// Package participant defines the core domain entities for players in the game.
// This package is PURE and must NOT import any infrastructure packages (network, events, platform).
package participant

import "fmt"

// Role is the hidden allegiance assigned to a participant at setup.
type Role string

const (
	RoleMafia    Role = "Mafia"
	RoleDoctor   Role = "Doctor"
	RoleCop      Role = "Cop"
	RoleVillager Role = "Villager"
)

// RoleUnknown is the placeholder shown to outside observers while a living
// participant's role is still secret.
const RoleUnknown = "Unknown"

// Status tracks whether a participant is still in the game.
// The only legal transition is Alive -> Dead; it never reverts.
type Status string

const (
	StatusAlive Status = "Alive"
	StatusDead  Status = "Dead"
)

// Participant represents one player in a Mafia game. Instances are owned
// exclusively by the game state that created them.
type Participant struct {
	ID          int            `json:"id"`
	Role        Role           `json:"role"`
	Status      Status         `json:"status"`
	Personality string         `json:"personality"`
	Knowledge   map[string]any `json:"knowledge"`

	// PendingVote is the id this participant voted to eliminate during the
	// current Day. Zero means no vote; it is reset when a new Day begins.
	PendingVote int `json:"-"`
}

// New creates a participant with default state. The personality rotates by id
// so that discussion output stays varied across the roster.
func New(id int) *Participant {
	p := &Participant{
		ID:        id,
		Role:      RoleVillager,
		Status:    StatusAlive,
		Knowledge: make(map[string]any),
	}

	switch id % 3 {
	case 0:
		p.Personality = "You are an outspoken and sometimes accusatory person. You are quick to point fingers."
	case 1:
		p.Personality = "You are a quiet observer. You speak only when you think you have something important to say."
	default:
		p.Personality = "You are a cautious but logical person. You tend to analyze situations before speaking."
	}

	return p
}

// Alive reports whether the participant can still act.
func (p *Participant) Alive() bool {
	return p.Status == StatusAlive
}

// Kill marks the participant dead. Calling it on an already dead participant
// is a no-op, preserving the one-way status transition.
func (p *Participant) Kill() {
	p.Status = StatusDead
}

// Learn records a fact in the participant's private knowledge map.
// Knowledge only grows; existing keys are never removed by the engine.
func (p *Participant) Learn(key string, fact any) {
	if p.Knowledge == nil {
		p.Knowledge = make(map[string]any)
	}
	p.Knowledge[key] = fact
}

func (p *Participant) String() string {
	return fmt.Sprintf("<Participant id=%d role=%s status=%s>", p.ID, p.Role, p.Status)
}
