package storage

import (
	"context"

	"github.com/avelasco/mafia-agents/internal/events"
)

// LedgerPersister adapts an EventRepository to the event log's write-through
// hook, stamping every entry with its game id.
type LedgerPersister struct {
	gameID string
	repo   EventRepository
}

// NewLedgerPersister creates a persister bound to one game.
func NewLedgerPersister(gameID string, repo EventRepository) *LedgerPersister {
	return &LedgerPersister{gameID: gameID, repo: repo}
}

// Append writes one log entry through to the ledger.
func (p *LedgerPersister) Append(seq int, e events.Entry) error {
	return p.repo.Append(context.Background(), EventRecord{
		GameID:  p.gameID,
		Seq:     seq,
		Day:     e.Day,
		Phase:   e.Phase,
		Message: e.Message,
	})
}

var _ events.Persister = (*LedgerPersister)(nil)
