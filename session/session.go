// ABOUTME: Per-run session state with a unique run ID and optional debug log
// ABOUTME: Threaded through all components instead of process-global state

package session

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
)

// Session carries the run-scoped state created at startup and discarded at
// exit. Nothing here survives across runs.
type Session struct {
	ID      string
	Started time.Time

	logger  *log.Logger
	logFile *os.File
}

// New creates a session. If debugPath is non-empty, debug messages are
// written to that file (truncated each run)
func New(debugPath string) (*Session, error) {
	s := &Session{
		ID:      uuid.NewString(),
		Started: time.Now(),
	}

	if debugPath != "" {
		f, err := os.Create(debugPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create debug log file: %w", err)
		}

		s.logFile = f
		s.logger = log.New(f, "", log.Ltime|log.Lmicroseconds)
		s.logger.Printf("[run %s] session started", s.ID)
	}

	return s, nil
}

// Debugf logs a debug message if debug logging is enabled
func (s *Session) Debugf(format string, args ...interface{}) {
	if s == nil || s.logger == nil {
		return
	}

	s.logger.Printf("[run %s] %s", shortID(s.ID), fmt.Sprintf(format, args...))
}

// Close flushes and closes the debug log file
func (s *Session) Close() error {
	if s == nil || s.logFile == nil {
		return nil
	}

	s.Debugf("session finished after %v", time.Since(s.Started).Round(time.Millisecond))

	return s.logFile.Close()
}

// shortID returns the first uuid group, enough to correlate lines within a log
func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}

	return id
}
