// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakeledger/kv"
	"github.com/vechain/stakeledger/stackedmap"
	"github.com/vechain/stakeledger/thor"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// State manages contract storage of the ledger.
// A State is not safe for concurrent use.
type State struct {
	src   kv.Getter
	cache *committedCache
	sm    *stackedmap.StackedMap
}

// New create state object over the given store.
func New(src kv.Getter) *State {
	return newState(src, nil)
}

func newState(src kv.Getter, cache *committedCache) *State {
	state := State{
		src:   src,
		cache: cache,
	}
	state.sm = stackedmap.New(func(key any) (any, bool, error) {
		return state.cacheGetter(key)
	})
	return &state
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) (value any, exist bool, err error) {
	switch k := key.(type) {
	case storageKey:
		v, err := s.loadStorage(k)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

func (s *State) loadStorage(key storageKey) (rlp.RawValue, error) {
	dbKey := key.dbKey()
	if s.cache != nil {
		if v, ok := s.cache.get(dbKey); ok {
			metricStorageRead().AddWithLabel(1, map[string]string{"source": "cache"})
			return v, nil
		}
	}
	metricStorageRead().AddWithLabel(1, map[string]string{"source": "db"})

	var gen uint64
	if s.cache != nil {
		gen = s.cache.generation()
	}
	data, err := s.src.Get(dbKey)
	if err != nil {
		if !s.src.IsNotFound(err) {
			return nil, err
		}
		data = nil
	}
	v := rlp.RawValue(data)
	if s.cache != nil {
		s.cache.fill(dbKey, v, gen)
	}
	return v, nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr thor.Address, key thor.Bytes32) (thor.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if len(raw) == 0 {
		return thor.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return thor.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return thor.Blake2b(raw), nil
	}
	return thor.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr thor.Address, key, value thor.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage makes a stage object to commit all changes.
func (s *State) Stage() *Stage {
	changes := make(map[string]rlp.RawValue)
	s.sm.Journal(func(k, v any) bool {
		if key, ok := k.(storageKey); ok {
			changes[string(key.dbKey())] = v.(rlp.RawValue)
		}
		return true
	})
	return &Stage{
		cache:   s.cache,
		changes: changes,
	}
}

const storageKeyPrefix = "s"

type storageKey struct {
	addr thor.Address
	key  thor.Bytes32
}

func (k storageKey) dbKey() []byte {
	b := make([]byte, 0, len(storageKeyPrefix)+len(k.addr)+len(k.key))
	b = append(b, storageKeyPrefix...)
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}
