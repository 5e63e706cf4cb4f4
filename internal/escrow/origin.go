package escrow

import (
	"sync"

	"github.com/google/uuid"
)

// OriginGenerator produces the origin token stamped on every audit event.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type OriginGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 origin tokens.
//
// UUIDv7 embeds a timestamp in the most significant bits, so tokens from
// merged journals sort by registry start time. Uses github.com/google/uuid
// for RFC 4122 compliant UUIDs.
//
// Thread-safety: stateless, safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined tokens for deterministic tests and
// golden trace comparison.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedGenerator creates a generator that returns tokens in order.
// Generate panics once all tokens are consumed; the fail-fast catches test
// misconfiguration.
func NewFixedGenerator(tokens ...string) *FixedGenerator {
	return &FixedGenerator{tokens: tokens}
}

// Generate returns the next predetermined token.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.tokens) {
		panic("FixedGenerator: all tokens exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}
