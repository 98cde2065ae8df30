package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/pulsenet/internal/ir"
)

// createTestStore creates a new store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a tally run with minimal required fields.
func createTestRun(id string) Run {
	return Run{
		ID:         id,
		Query:      QueryTally,
		WiringHash: "test-hash",
		Entry:      ir.DefaultEntry,
		Presses:    1,
		Low:        8,
		High:       4,
		Result:     32,
	}
}

// writeTestRun writes createTestRun(id) and fails the test on error.
func writeTestRun(t *testing.T, s *Store, id string) Run {
	t.Helper()
	run, err := s.WriteRun(context.Background(), createTestRun(id))
	if err != nil {
		t.Fatalf("WriteRun(%s) failed: %v", id, err)
	}
	return run
}
