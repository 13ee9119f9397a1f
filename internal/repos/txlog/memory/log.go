// Package memory provides the in-memory transaction id log.
package memory

import (
	"sync"

	"github.com/fastprodman/PaymentsHW/internal/repos/txlog"
)

// Sharded so the global dedup point does not serialize workers that are
// otherwise touching unrelated accounts.
const shardCount = 64

var _ txlog.Log = (*Log)(nil)

type shard struct {
	mu   sync.Mutex
	seen map[uint32]struct{}
}

// Log is a sharded set of admitted transaction ids.
type Log struct {
	shards [shardCount]shard
}

// New returns an empty log.
func New() *Log {
	l := &Log{}
	for i := range l.shards {
		l.shards[i].seen = make(map[uint32]struct{})
	}

	return l
}

// Admit marks txID as seen. It returns true on the first call for txID and
// false on every later one, atomically (no check-then-act window).
func (l *Log) Admit(txID uint32) bool {
	s := &l.shards[txID&(shardCount-1)]

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.seen[txID]; dup {
		return false
	}

	s.seen[txID] = struct{}{}

	return true
}
