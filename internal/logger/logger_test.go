package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(l *Logger) {
	l.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local) }
}

func TestLinesAreStamped(t *testing.T) {
	l := Discard()
	fixedClock(l)
	l.Info("rendered frame %d", 3)
	l.Warn("retrying")
	l.Error("failed: %v", os.ErrNotExist)
	assert.Equal(t, []string{
		"[2024-03-09 14:05:07] INFO rendered frame 3",
		"[2024-03-09 14:05:07] WARN retrying",
		"[2024-03-09 14:05:07] ERROR failed: file does not exist",
	}, l.Lines())
}

func TestFileAndConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "crayscene.txt")
	var console bytes.Buffer
	l := New(path, &console)
	fixedClock(l)
	l.Info("one")
	l.Info("two")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[2024-03-09 14:05:07] INFO one\n[2024-03-09 14:05:07] INFO two\n", string(data))
	assert.Contains(t, console.String(), "one\n")
	assert.Contains(t, console.String(), "INFO")
}

func TestLinesReturnsCopy(t *testing.T) {
	l := Discard()
	l.Info("a")
	lines := l.Lines()
	lines[0] = "changed"
	assert.NotEqual(t, "changed", l.Lines()[0])
}
