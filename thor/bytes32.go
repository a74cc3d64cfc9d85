// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/hex"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// Bytes32 is a 32 byte value: a call ID, a state hash or an event topic.
type Bytes32 [32]byte

var (
	_ json.Marshaler   = (*Bytes32)(nil)
	_ json.Unmarshaler = (*Bytes32)(nil)
)

func (b Bytes32) String() string {
	return "0x" + hex.EncodeToString(b[:])
}

func (b Bytes32) Bytes() []byte {
	return b[:]
}

func (b Bytes32) IsZero() bool {
	return b == Bytes32{}
}

// MarshalJSON encodes b as a 0x prefixed hex string, nil as null.
func (b *Bytes32) MarshalJSON() ([]byte, error) {
	if b == nil {
		return json.Marshal(nil)
	}
	return marshalHexJSON(b[:])
}

func (b *Bytes32) UnmarshalJSON(data []byte) error {
	var parsed Bytes32
	if err := unmarshalHexJSON(data, parsed[:]); err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBytes32 parses 64 hex digits, optionally 0x prefixed.
func ParseBytes32(s string) (Bytes32, error) {
	var b Bytes32
	if err := decodeFixedHex(s, b[:]); err != nil {
		return Bytes32{}, err
	}
	return b, nil
}

// BytesToBytes32 left pads b to 32 bytes, or keeps its rightmost 32 bytes if longer.
// Addresses become event topics this way.
func BytesToBytes32(b []byte) Bytes32 {
	return Bytes32(common.BytesToHash(b))
}
