// Package memory provides the in-memory account registry.
//
// The registry is lock-striped: client ids hash to a fixed shard, each shard
// guarding its slice of the map with an RWMutex. Contention on the registry
// itself stays low; serialization of account mutations is the account's own
// concern (see accounts.Account).
package memory

import (
	"sync"

	"github.com/fastprodman/PaymentsHW/internal/repos/accounts"
)

const shardCount = 32 // power of two, so modulo reduces to a mask

var _ accounts.Registry = (*Registry)(nil)

type shard struct {
	mu sync.RWMutex
	m  map[uint16]*accounts.Account
}

// Registry is a sharded in-memory accounts.Registry.
type Registry struct {
	shards [shardCount]shard
}

// New returns an empty registry.
func New() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i].m = make(map[uint16]*accounts.Account)
	}

	return r
}

func (r *Registry) shardFor(clientID uint16) *shard {
	return &r.shards[clientID&(shardCount-1)]
}

// GetOrCreate returns the account for clientID, creating it atomically on
// first reference.
func (r *Registry) GetOrCreate(clientID uint16) *accounts.Account {
	s := r.shardFor(clientID)

	s.mu.RLock()
	acc, ok := s.m[clientID]
	s.mu.RUnlock()

	if ok {
		return acc
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check under the write lock; another worker may have won the race.
	acc, ok = s.m[clientID]
	if !ok {
		acc = accounts.NewAccount(clientID)
		s.m[clientID] = acc
	}

	return acc
}

// Get returns the account for clientID if it exists.
func (r *Registry) Get(clientID uint16) (*accounts.Account, bool) {
	s := r.shardFor(clientID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.m[clientID]

	return acc, ok
}

// All returns every known account, in no particular order.
func (r *Registry) All() []*accounts.Account {
	var all []*accounts.Account

	for i := range r.shards {
		s := &r.shards[i]

		s.mu.RLock()
		for _, acc := range s.m {
			all = append(all, acc)
		}
		s.mu.RUnlock()
	}

	return all
}
