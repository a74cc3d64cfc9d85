// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"hash"
	"io"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// NewBlake2b returns a blake2b-256 hasher.
func NewBlake2b() hash.Hash {
	h, _ := blake2b.New256(nil)
	return h
}

// hashers are reused across Blake2bFn calls, each holding its own output buffer.
var hashers = sync.Pool{
	New: func() any {
		return &pooledHasher{Hash: NewBlake2b()}
	},
}

type pooledHasher struct {
	hash.Hash
	sum Bytes32
}

// Blake2b hashes the concatenation of data. Storage slots and call IDs are derived with it.
func Blake2b(data ...[]byte) Bytes32 {
	if len(data) == 1 {
		return blake2b.Sum256(data[0])
	}
	return Blake2bFn(func(w io.Writer) {
		for _, b := range data {
			w.Write(b)
		}
	})
}

// Blake2bFn hashes whatever fn writes.
func Blake2bFn(fn func(w io.Writer)) Bytes32 {
	h := hashers.Get().(*pooledHasher)
	defer hashers.Put(h)

	h.Reset()
	fn(h)
	h.Sum(h.sum[:0])
	return h.sum
}

// Keccak256 is the legacy keccak used for ABI selectors and event topics.
func Keccak256(data ...[]byte) (h Bytes32) {
	k := sha3.NewLegacyKeccak256()
	for _, b := range data {
		k.Write(b)
	}
	k.Sum(h[:0])
	return
}
