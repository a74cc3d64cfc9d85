// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakeledger/thor"
)

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
type Uint256 struct {
	context *Context
	pos     thor.Bytes32
}

func NewUint256(context *Context, pos thor.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*uint256.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	u.context.UseGas(thor.SloadGas)
	return new(uint256.Int).SetBytes(storage.Bytes()), nil
}

func (u *Uint256) Set(value *uint256.Int, newValue bool) {
	if newValue {
		u.context.UseGas(thor.SstoreSetGas)
	} else {
		u.context.UseGas(thor.SstoreResetGas)
	}
	u.context.state.SetStorage(u.context.address, u.pos, thor.Bytes32(value.Bytes32()))
}

// Add adds value and fails with ErrUint256Overflow instead of wrapping.
func (u *Uint256) Add(value *uint256.Int) error {
	current, err := u.Get()
	if err != nil {
		return err
	}
	sum, overflow := new(uint256.Int).AddOverflow(current, value)
	if overflow {
		return ErrUint256Overflow
	}
	u.Set(sum, current.IsZero())
	return nil
}

// Sub subtracts value and fails with ErrUint256Underflow instead of wrapping.
func (u *Uint256) Sub(value *uint256.Int) error {
	current, err := u.Get()
	if err != nil {
		return err
	}
	diff, underflow := new(uint256.Int).SubOverflow(current, value)
	if underflow {
		return ErrUint256Underflow
	}
	u.Set(diff, false)
	return nil
}
