package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that writes to a file and to extra writers
func NewFileLogger(path string, level log.Level, extra ...io.Writer) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	w := io.MultiWriter(append([]io.Writer{f}, extra...)...)

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(w, level), cleanup, nil
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// ParseLevel converts a config level name, defaulting to warn
func ParseLevel(name string) log.Level {
	level, err := log.ParseLevel(name)
	if err != nil {
		return log.WarnLevel
	}
	return level
}

// RunStarted logs the start of a resolution run
func (l *Logger) RunStarted(runID, notebook string, write bool) {
	l.Info("run started",
		"run_id", runID,
		"notebook", notebook,
		"write", write)
}

// RunCompleted logs the end of a resolution run
func (l *Logger) RunCompleted(runID string, resolved, unresolved int, duration time.Duration) {
	l.Info("run completed",
		"run_id", runID,
		"resolved", resolved,
		"unresolved", unresolved,
		"duration", duration.Round(time.Millisecond))
}

// NotebookLoaded logs a parsed notebook
func (l *Logger) NotebookLoaded(path string, cells int) {
	l.Debug("notebook loaded",
		"path", path,
		"cells", cells)
}

// NotebookWritten logs a persisted notebook
func (l *Logger) NotebookWritten(path string) {
	l.Info("notebook written",
		"path", path)
}

// ReferenceResolved logs one substituted marker
func (l *Logger) ReferenceResolved(notebook string, cell int, id, title string) {
	l.Debug("reference resolved",
		"notebook", notebook,
		"cell", cell,
		"id", id,
		"title", title)
}

// ReferenceUnresolved logs a marker with no mapping
func (l *Logger) ReferenceUnresolved(notebook string, cell int, id string) {
	l.Debug("reference unresolved",
		"notebook", notebook,
		"cell", cell,
		"id", id)
}

// Skipped logs when a notebook is skipped
func (l *Logger) Skipped(path, reason string) {
	l.Info("notebook skipped",
		"path", path,
		"reason", reason)
}

// StateError logs a state-related error
func (l *Logger) StateError(operation string, err error) {
	l.Error("state error",
		"operation", operation,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(path, stateFile string, writeBack bool) {
	l.Debug("config loaded",
		"path", path,
		"state_file", stateFile,
		"write_back", writeBack)
}
