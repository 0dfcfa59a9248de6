// ABOUTME: Tests for session creation and debug logging
// ABOUTME: Verifies run IDs are unique and log output lands in the file

package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewSessionHasUniqueID(t *testing.T) {
	a, err := New("")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	b, err := New("")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if a.ID == "" || b.ID == "" {
		t.Error("Expected non-empty session IDs")
	}

	if a.ID == b.ID {
		t.Errorf("Expected unique session IDs, both were %s", a.ID)
	}
}

func TestDebugfWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	s.Debugf("copied %d files", 3)

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read debug log: %v", err)
	}

	if !strings.Contains(string(data), "copied 3 files") {
		t.Errorf("Expected log to contain message, got: %s", data)
	}
}

func TestDebugfWithoutLogFileIsNoop(t *testing.T) {
	s, err := New("")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Must not panic
	s.Debugf("ignored")

	if err := s.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestDebugfOnNilSessionIsNoop(t *testing.T) {
	var s *Session

	// Must not panic
	s.Debugf("ignored")

	if err := s.Close(); err != nil {
		t.Errorf("Close on nil session failed: %v", err)
	}
}
