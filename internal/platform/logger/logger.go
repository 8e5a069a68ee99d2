// Package logger provides leveled logging for the Mafia server.
// Engine, network and storage components all log through this wrapper.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger provides leveled logging with printf formatting.
type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
}

// NewLogger creates a logger writing to standard output and error.
func NewLogger() *Logger {
	return New(os.Stdout, os.Stderr)
}

// New creates a logger writing to the given sinks. Tests pass buffers.
func New(out, errOut io.Writer) *Logger {
	return &Logger{
		infoLogger:  log.New(out, "[MAFIA-INFO] ", log.Ldate|log.Ltime|log.Lshortfile),
		warnLogger:  log.New(out, "[MAFIA-WARN] ", log.Ldate|log.Ltime|log.Lshortfile),
		errorLogger: log.New(errOut, "[MAFIA-ERROR] ", log.Ldate|log.Ltime|log.Lshortfile),
	}
}

// Info logs informational messages.
func (l *Logger) Info(format string, args ...any) {
	l.infoLogger.Output(2, fmt.Sprintf(format, args...))
}

// Warn logs warning messages.
func (l *Logger) Warn(format string, args ...any) {
	l.warnLogger.Output(2, fmt.Sprintf(format, args...))
}

// Error logs error messages.
func (l *Logger) Error(format string, args ...any) {
	l.errorLogger.Output(2, fmt.Sprintf(format, args...))
}

// Event logs a game event for traceability across games.
func (l *Logger) Event(eventType string, gameID string, details string) {
	l.infoLogger.Output(2, fmt.Sprintf("[EVENT:%s] Game:%s | %s", eventType, gameID, details))
}
