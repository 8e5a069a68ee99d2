package game

import (
	"fmt"
	"sync"
)

// Registry tracks running games by id. The most recently created game is also
// reachable as the default game, which is what the singleton API routes use.
type Registry struct {
	mu       sync.RWMutex
	games    map[string]*State
	latestID string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{games: make(map[string]*State)}
}

// Put registers a game and makes it the default.
func (r *Registry) Put(g *State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[g.ID()] = g
	r.latestID = g.ID()
}

// Get returns the game with the given id.
func (r *Registry) Get(id string) (*State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	if !ok {
		return nil, fmt.Errorf("no game with id %s", id)
	}
	return g, nil
}

// Default returns the most recently created game, or nil if none exists.
func (r *Registry) Default() *State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.latestID == "" {
		return nil
	}
	return r.games[r.latestID]
}

// Len returns the number of registered games.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}
