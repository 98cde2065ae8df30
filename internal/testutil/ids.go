package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDGenerator hands out run ids "<prefix>-0001", "<prefix>-0002", ...
//
// It satisfies store.IDGenerator and makes run logs written by tests
// byte-identical across runs.
type SequentialIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDGenerator creates a generator. An empty prefix becomes "run".
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "run"
	}
	return &SequentialIDGenerator{prefix: prefix}
}

// Generate returns the next id.
func (g *SequentialIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
