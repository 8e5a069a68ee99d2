// Package storage provides the persistence layer for the Mafia server.
// This package implements the repository pattern to keep the game core pure.
package storage

import (
	"context"
	"time"
)

// EventRecord mirrors an event-log entry for persistence. The events package
// does NOT import this; a small adapter bridges the two.
type EventRecord struct {
	GameID  string `json:"game_id" db:"game_id"`
	Seq     int    `json:"seq" db:"seq"`
	Day     int    `json:"day" db:"day"`
	Phase   string `json:"phase" db:"phase"`
	Message string `json:"message" db:"message"`
}

// EventRepository defines the interface for event-ledger persistence.
type EventRepository interface {
	// Append adds a new entry to the ledger. Re-appending an existing
	// sequence number overwrites the message (update-last semantics).
	Append(ctx context.Context, rec EventRecord) error

	// GetByGameID retrieves the full ledger for a game, in order.
	GetByGameID(ctx context.Context, gameID string) ([]EventRecord, error)

	// GetByDay retrieves the entries of one in-game day.
	GetByDay(ctx context.Context, gameID string, day int) ([]EventRecord, error)
}

// GameRecord is the persisted summary of one game.
type GameRecord struct {
	GameID     string     `json:"game_id" db:"game_id"`
	NumAgents  int        `json:"num_agents" db:"num_agents"`
	Phase      string     `json:"phase" db:"phase"`
	DayCount   int        `json:"day_count" db:"day_count"`
	Winner     string     `json:"winner" db:"winner"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	FinishedAt *time.Time `json:"finished_at" db:"finished_at"`
}

// ParticipantRecord is the persisted end state of one player.
type ParticipantRecord struct {
	GameID string `json:"game_id" db:"game_id"`
	ID     int    `json:"id" db:"id"`
	Role   string `json:"role" db:"role"`
	Status string `json:"status" db:"status"`
}

// ResultRepository defines the interface for game result persistence.
type ResultRepository interface {
	// UpsertGame records or updates a game summary.
	UpsertGame(ctx context.Context, rec GameRecord) error

	// UpsertParticipants records the roster's end state.
	UpsertParticipants(ctx context.Context, recs []ParticipantRecord) error

	// GetGame retrieves one game summary, or nil if unknown.
	GetGame(ctx context.Context, gameID string) (*GameRecord, error)

	// ListGames retrieves recent game summaries, newest first.
	ListGames(ctx context.Context, limit int) ([]GameRecord, error)
}
