package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturePersister records every write-through call.
type capturePersister struct {
	seqs    []int
	entries []Entry
}

func (p *capturePersister) Append(seq int, e Entry) error {
	p.seqs = append(p.seqs, seq)
	p.entries = append(p.entries, e)
	return nil
}

func TestAppendAndEntries(t *testing.T) {
	l := NewLog(nil)
	l.Append(Entry{Day: 1, Phase: "Day", Message: "first"})
	l.Append(Entry{Day: 1, Phase: "Day", Message: "second"})

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Message)
	assert.Equal(t, "second", entries[1].Message)
	assert.Equal(t, 2, l.Len())
}

func TestEntriesReturnsCopy(t *testing.T) {
	l := NewLog(nil)
	l.Append(Entry{Message: "original"})

	entries := l.Entries()
	entries[0].Message = "mutated"

	assert.Equal(t, "original", l.Entries()[0].Message)
}

func TestUpdateLast(t *testing.T) {
	l := NewLog(nil)
	l.Append(Entry{Day: 2, Phase: "Day", Message: "Player 3 is thinking..."})
	l.UpdateLast(`Player 3: "I have my suspicions."`)

	entries := l.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, `Player 3: "I have my suspicions."`, entries[0].Message)
	assert.Equal(t, 2, entries[0].Day)
}

func TestUpdateLastOnEmptyLogIsNoOp(t *testing.T) {
	l := NewLog(nil)
	l.UpdateLast("nothing to replace")
	assert.Equal(t, 0, l.Len())
}

func TestTail(t *testing.T) {
	l := NewLog(nil)
	for _, m := range []string{"a", "b", "c", "d"} {
		l.Append(Entry{Message: m})
	}

	assert.Equal(t, []string{"c", "d"}, l.Tail(2))
	assert.Equal(t, []string{"a", "b", "c", "d"}, l.Tail(10))
	assert.Empty(t, l.Tail(0))
}

func TestContainsRecent(t *testing.T) {
	l := NewLog(nil)
	for _, m := range []string{"one", "two", "three", "four"} {
		l.Append(Entry{Message: m})
	}

	assert.True(t, l.ContainsRecent("four", 1))
	assert.True(t, l.ContainsRecent("two", 3))
	assert.False(t, l.ContainsRecent("one", 3))
	assert.False(t, l.ContainsRecent("missing", 10))
}

func TestPersisterWriteThrough(t *testing.T) {
	p := &capturePersister{}
	l := NewLog(p)

	l.Append(Entry{Message: "placeholder"})
	l.Append(Entry{Message: "second"})
	l.UpdateLast("replaced")

	require.Len(t, p.entries, 3)
	assert.Equal(t, []int{0, 1, 1}, p.seqs)
	assert.Equal(t, "replaced", p.entries[2].Message)
}
