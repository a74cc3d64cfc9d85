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

// Raw stores one rlp encoded value in a single position. Used for structs that are read and written as a whole.
type Raw[V any] struct {
	context *Context
	pos     thor.Bytes32
}

func NewRaw[V any](context *Context, pos thor.Bytes32) *Raw[V] {
	return &Raw[V]{context: context, pos: pos}
}

// Get decodes the stored value. The second return value is false if nothing was stored.
func (r *Raw[V]) Get() (value V, exists bool, err error) {
	err = r.context.state.DecodeStorage(r.context.address, r.pos, func(raw []byte) error {
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			r.context.UseGas(thor.SloadGas)
			return nil
		}
		exists = true
		r.context.UseGas(slots(len(raw)) * thor.SloadGas)
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (r *Raw[V]) Set(value V, newValue bool) error {
	return r.context.state.EncodeStorage(r.context.address, r.pos, func() ([]byte, error) {
		val, err := rlp.EncodeToBytes(value)
		if err != nil {
			return nil, err
		}
		if newValue {
			r.context.UseGas(slots(len(val)) * thor.SstoreSetGas)
		} else {
			r.context.UseGas(slots(len(val)) * thor.SstoreResetGas)
		}
		return val, nil
	})
}
