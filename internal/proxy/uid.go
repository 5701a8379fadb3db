package proxy

import (
	"sync"

	"github.com/google/uuid"
)

// UIDGenerator produces tracker uids.
type UIDGenerator interface {
	Generate() string
}

// UUIDGenerator generates random UUIDv4 tracker uids.
//
// Thread-safety: UUIDGenerator is stateless and safe for concurrent use.
type UUIDGenerator struct{}

// Generate returns a new hyphenated UUIDv4.
//
// Panics if the random source fails (should never happen in practice).
func (UUIDGenerator) Generate() string {
	return uuid.Must(uuid.NewRandom()).String()
}

// FixedGenerator returns predetermined uids, for tests and golden files.
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu   sync.Mutex
	uids []string
	idx  int
}

// NewFixedGenerator creates a generator that returns uids in order.
//
// Example:
//
//	gen := NewFixedGenerator("uid-1", "uid-2")
//	gen.Generate() // "uid-1"
//	gen.Generate() // "uid-2"
//	gen.Generate() // panic: all uids exhausted
func NewFixedGenerator(uids ...string) *FixedGenerator {
	return &FixedGenerator{uids: uids}
}

// Generate returns the next predetermined uid.
//
// Panics if all uids have been consumed, so a test that builds more trackers
// than it planned for fails loudly.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.uids) {
		panic("FixedGenerator: all uids exhausted")
	}
	uid := g.uids[g.idx]
	g.idx++
	return uid
}

// Remaining returns how many uids are left.
func (g *FixedGenerator) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.uids) - g.idx
}
