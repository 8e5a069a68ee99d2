package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelsWriteToTheRightSink(t *testing.T) {
	var out, errOut bytes.Buffer
	l := New(&out, &errOut)

	l.Info("hello %s", "world")
	l.Warn("watch out")
	l.Error("it broke: %v", "timeout")

	assert.Contains(t, out.String(), "[MAFIA-INFO] ")
	assert.Contains(t, out.String(), "hello world")
	assert.Contains(t, out.String(), "[MAFIA-WARN] ")
	assert.Contains(t, out.String(), "watch out")
	assert.NotContains(t, out.String(), "it broke")

	assert.Contains(t, errOut.String(), "[MAFIA-ERROR] ")
	assert.Contains(t, errOut.String(), "it broke: timeout")
}

func TestEventFormat(t *testing.T) {
	var out bytes.Buffer
	l := New(&out, &out)

	l.Event("GAME_OVER", "abc-123", "Mafia")

	assert.Contains(t, out.String(), "[EVENT:GAME_OVER] Game:abc-123 | Mafia")
}
