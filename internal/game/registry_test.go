package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasco/mafia-agents/internal/events"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Default())
	_, err := r.Get("missing")
	assert.Error(t, err)

	e := newTestEngine(lowestPickProvider{})
	g1, err := e.NewGame("", 5, 1, events.NewLog(nil))
	require.NoError(t, err)
	g2, err := e.NewGame("", 5, 2, events.NewLog(nil))
	require.NoError(t, err)

	r.Put(g1)
	assert.Same(t, g1, r.Default())

	r.Put(g2)
	assert.Same(t, g2, r.Default(), "latest game becomes the default")
	assert.Equal(t, 2, r.Len())

	got, err := r.Get(g1.ID())
	require.NoError(t, err)
	assert.Same(t, g1, got)
}
