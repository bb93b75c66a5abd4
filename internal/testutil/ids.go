package testutil

import (
	"fmt"
	"sync"
)

// SequenceIDs mints ids of the form "<prefix>-0001", "<prefix>-0002", ...
// Tests and the harness use it in place of uuid generation so that hole and
// session ids in exports are predictable.
//
// Thread-safety: Next is safe for concurrent use.
type SequenceIDs struct {
	mu     sync.Mutex
	prefix string
	seq    int
}

// NewSequenceIDs creates a generator with the given prefix. An empty prefix
// defaults to "id".
func NewSequenceIDs(prefix string) *SequenceIDs {
	if prefix == "" {
		prefix = "id"
	}
	return &SequenceIDs{prefix: prefix}
}

// Next returns the next id in the sequence.
func (g *SequenceIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%04d", g.prefix, g.seq)
}
