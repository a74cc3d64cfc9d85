// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/kv"
)

// The main store is split into contract storage and ledger bookkeeping.
var (
	stateBucket = kv.Bucket("s")
	metaBucket  = kv.Bucket("m")
)

var metaKey = []byte("head")

// head is the bookkeeping persisted after every clause so a restarted ledger keeps
// counting calls and never moves its time backwards.
type head struct {
	number uint32
	time   uint64
}

func (h head) encode() []byte {
	buf := make([]byte, 12)
	binary.BigEndian.PutUint32(buf, h.number)
	binary.BigEndian.PutUint64(buf[4:], h.time)
	return buf
}

func loadHead(store kv.Getter) (head, error) {
	data, err := store.Get(metaKey)
	if err != nil {
		if store.IsNotFound(err) {
			return head{}, nil
		}
		return head{}, errors.Wrap(err, "load ledger head")
	}
	if len(data) != 12 {
		return head{}, errors.Errorf("load ledger head: invalid length %d", len(data))
	}
	return head{
		number: binary.BigEndian.Uint32(data),
		time:   binary.BigEndian.Uint64(data[4:]),
	}, nil
}

func saveHead(store kv.Putter, h head) error {
	return errors.Wrap(store.Put(metaKey, h.encode()), "save ledger head")
}
