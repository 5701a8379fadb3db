// Package testutil holds deterministic stand-ins for the random parts of
// compilation.
package testutil

import (
	"fmt"
	"sync/atomic"
)

// DefaultUIDPrefix is used when NewSequentialGenerator gets an empty prefix.
const DefaultUIDPrefix = "test-uid"

// SequentialGenerator hands out tracker uids "<prefix>-1", "<prefix>-2", ...
//
// Unlike proxy.FixedGenerator it never runs out, which suits scenarios that
// do not list their uids. Safe for concurrent use.
type SequentialGenerator struct {
	prefix string
	n      atomic.Int64
}

// NewSequentialGenerator creates a generator whose first uid is "<prefix>-1".
func NewSequentialGenerator(prefix string) *SequentialGenerator {
	if prefix == "" {
		prefix = DefaultUIDPrefix
	}
	return &SequentialGenerator{prefix: prefix}
}

// Generate returns the next uid.
//
// Implements proxy.UIDGenerator.
func (g *SequentialGenerator) Generate() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.n.Add(1))
}

// Reset restarts numbering at 1.
func (g *SequentialGenerator) Reset() {
	g.n.Store(0)
}
