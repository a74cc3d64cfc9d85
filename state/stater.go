// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"sync"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"

	"github.com/vechain/stakeledger/kv"
)

const defaultCacheSize = 4096

// Stater is the state creator. States created by the same stater share a cache of committed slots.
type Stater struct {
	db    kv.Store
	cache *committedCache
}

// NewStater create a new stater.
func NewStater(db kv.Store) *Stater {
	return &Stater{db, newCommittedCache(defaultCacheSize)}
}

// NewState create a new state object.
func (s *Stater) NewState() *State {
	return newState(s.db, s.cache)
}

// Commit commits the stage into the underlying store.
func (s *Stater) Commit(stage *Stage) error {
	return stage.Commit(s.db)
}

// committedCache holds slots as committed to the store. Readers may only fill it with
// values loaded in the same commit generation, so a load racing a commit never
// overwrites the committed value with the one it replaced.
type committedCache struct {
	c   *lru.Cache
	mu  sync.Mutex
	gen uint64
}

func newCommittedCache(size int) *committedCache {
	c, _ := lru.New(size)
	return &committedCache{c: c}
}

func (c *committedCache) get(key []byte) (rlp.RawValue, bool) {
	if v, ok := c.c.Get(string(key)); ok {
		return v.(rlp.RawValue), true
	}
	return nil, false
}

// generation must be taken before reading the store.
func (c *committedCache) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// fill caches a value loaded from the store, unless a commit happened since gen.
func (c *committedCache) fill(key []byte, value rlp.RawValue, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.c.Add(string(key), value)
	return true
}

// commit starts a new generation and caches the committed changes.
func (c *committedCache) commit(changes map[string]rlp.RawValue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	for k, v := range changes {
		c.c.Add(k, v)
	}
}
