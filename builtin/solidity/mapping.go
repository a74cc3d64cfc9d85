// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakeledger/thor"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
// Values are rlp encoded. An absent key reads as the zero value of V (a freshly allocated value for pointer types).
type Mapping[K Key, V any] struct {
	context *Context
	basePos thor.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos thor.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) thor.Bytes32 {
	return thor.Blake2b(key.Bytes(), m.basePos.Bytes())
}

func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			m.context.UseGas(thor.SloadGas)
			return nil
		}
		m.context.UseGas(slots(len(raw)) * thor.SloadGas)
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Set stores the value under key. newValue selects the set price over the reset price.
func (m *Mapping[K, V]) Set(key K, value V, newValue bool) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		val, err := rlp.EncodeToBytes(value)
		if err != nil {
			return nil, err
		}
		if newValue {
			m.context.UseGas(slots(len(val)) * thor.SstoreSetGas)
		} else {
			m.context.UseGas(slots(len(val)) * thor.SstoreResetGas)
		}
		return val, nil
	})
}
