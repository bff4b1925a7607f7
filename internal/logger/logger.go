package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/muesli/termenv"
)

// LogFilePath is the default log file, relative to the working directory.
const LogFilePath = "logs/crayscene.txt"

// Level is the severity written after the timestamp.
type Level int

// Log levels, in increasing severity.
const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "INFO"
}

// ANSI colour per level on the console.
var levelColors = map[Level]string{
	LevelInfo:  "6",
	LevelWarn:  "3",
	LevelError: "1",
}

// Logger stores lines in memory, appends them to a file on disk and echoes them to a
// console writer if one is set.
type Logger struct {
	mu    sync.Mutex
	lines []string
	path  string
	out   *termenv.Output
	now   func() time.Time
}

// New returns a Logger writing to path (no file when empty) and echoing to console
// (nil for none). The log directory is created if missing.
func New(path string, console io.Writer) *Logger {
	l := &Logger{lines: make([]string, 0), path: path, now: time.Now}
	if path != "" {
		_ = os.MkdirAll(filepath.Dir(path), 0755)
	}
	if console != nil {
		l.out = termenv.NewOutput(console)
	}
	return l
}

// Discard returns a memory-only Logger.
func Discard() *Logger {
	return New("", nil)
}

// Log appends a line at level. Each entry is prefixed with [timestamp] LEVEL using computer time.
func (l *Logger) Log(level Level, line string) {
	ts := l.now().Format("2006-01-02 15:04:05")
	stamped := "[" + ts + "] " + level.String() + " " + line

	l.mu.Lock()
	l.lines = append(l.lines, stamped)
	l.mu.Unlock()

	if l.out != nil {
		tag := l.out.String(level.String()).Foreground(l.out.Color(levelColors[level])).Bold()
		fmt.Fprintf(l.out, "%s %s\n", tag, line)
	}
	if l.path == "" {
		return
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	_, _ = f.WriteString(stamped + "\n")
	_ = f.Close()
}

func (l *Logger) Info(format string, args ...any) {
	l.Log(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.Log(LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	l.Log(LevelError, fmt.Sprintf(format, args...))
}

// Lines returns a copy of all stored lines.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}
