// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/hex"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// AddressLength length of address in bytes.
const AddressLength = common.AddressLength

// Address identifies an account or a builtin contract.
type Address common.Address

var (
	_ json.Marshaler   = (*Address)(nil)
	_ json.Unmarshaler = (*Address)(nil)
)

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) Bytes() []byte {
	return a[:]
}

// IsZero reports whether a is the zero address, which never submits a call.
func (a Address) IsZero() bool {
	return a == Address{}
}

func (a *Address) MarshalJSON() ([]byte, error) {
	if a == nil {
		return json.Marshal(nil)
	}
	return marshalHexJSON(a[:])
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var parsed Address
	if err := unmarshalHexJSON(data, parsed[:]); err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress parses 40 hex digits, optionally 0x prefixed.
func ParseAddress(s string) (Address, error) {
	var addr Address
	if err := decodeFixedHex(s, addr[:]); err != nil {
		return Address{}, err
	}
	return addr, nil
}

// MustParseAddress is like ParseAddress but panics on error.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// BytesToAddress left pads b to 20 bytes, or keeps its rightmost 20 bytes if longer.
func BytesToAddress(b []byte) Address {
	return Address(common.BytesToAddress(b))
}
