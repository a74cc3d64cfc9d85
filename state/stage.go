// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/kv"
	"github.com/vechain/stakeledger/thor"
)

// Stage abstracts the changes made on a state.
type Stage struct {
	cache   *committedCache
	changes map[string]rlp.RawValue
}

// Len returns the count of changed storage slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Hash computes a digest over all changes, in key order.
func (s *Stage) Hash() thor.Bytes32 {
	keys := make([]string, 0, len(s.changes))
	for k := range s.changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return thor.Blake2bFn(func(w io.Writer) {
		for _, k := range keys {
			w.Write([]byte(k))
			w.Write(s.changes[k])
		}
	})
}

// Commit writes all changes into the given store in one atomic bulk.
func (s *Stage) Commit(store kv.Store) error {
	if len(s.changes) == 0 {
		return nil
	}
	return s.CommitBulk(store.Bulk())
}

// CommitBulk adds all changes to bulk and writes it. Whatever the caller put in bulk
// before is committed atomically with the changes.
func (s *Stage) CommitBulk(bulk kv.Bulk) error {
	for k, v := range s.changes {
		var err error
		if len(v) == 0 {
			err = bulk.Delete([]byte(k))
		} else {
			err = bulk.Put([]byte(k), v)
		}
		if err != nil {
			return errors.Wrap(err, "stage storage change")
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "commit state")
	}

	if s.cache != nil {
		s.cache.commit(s.changes)
	}
	metricStorageCommit().Add(int64(len(s.changes)))
	return nil
}
