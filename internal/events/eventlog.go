// Package events provides the narrated record of a Mafia game.
// Every phase transition, utterance, vote and death is appended here; the
// log doubles as the prompt context fed back to the decision provider.
package events

import "sync"

// Entry is a single narrated game event.
type Entry struct {
	Day     int    `json:"day"`
	Phase   string `json:"phase"`
	Message string `json:"message"`
}

// Persister defines how an entry is durably stored. The sequence number is
// the entry's position in the log; re-persisting a sequence replaces the
// stored message, which is how UpdateLast reaches disk.
type Persister interface {
	Append(seq int, entry Entry) error
}

// Log is the in-memory, ordered record of game events. It is append-only
// with one exception: UpdateLast rewrites the most recent message, used to
// replace a "Player X is thinking..." placeholder with the realized line.
type Log struct {
	mu        sync.RWMutex
	entries   []Entry
	persister Persister
}

// NewLog creates a log with an optional write-through persister.
func NewLog(persister Persister) *Log {
	return &Log{
		entries:   make([]Entry, 0, 64),
		persister: persister,
	}
}

// Append adds a new entry to the log.
func (l *Log) Append(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)

	if l.persister != nil {
		// Write through; persistence failures must never stall the game.
		_ = l.persister.Append(len(l.entries)-1, entry)
	}
}

// UpdateLast replaces the message of the most recent entry. No-op on an
// empty log.
func (l *Log) UpdateLast(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return
	}
	last := len(l.entries) - 1
	l.entries[last].Message = message

	if l.persister != nil {
		_ = l.persister.Append(last, l.entries[last])
	}
}

// Entries returns a copy of the full history.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Tail returns the messages of the last n entries, oldest first.
func (l *Log) Tail(n int) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	start := len(l.entries) - n
	if start < 0 {
		start = 0
	}
	out := make([]string, 0, len(l.entries)-start)
	for _, e := range l.entries[start:] {
		out = append(out, e.Message)
	}
	return out
}

// ContainsRecent reports whether any of the last n messages equals msg.
// Used to avoid repeating night-action acknowledgment lines.
func (l *Log) ContainsRecent(msg string, n int) bool {
	for _, m := range l.Tail(n) {
		if m == msg {
			return true
		}
	}
	return false
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
