// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/stakeledger/state"
	"github.com/vechain/stakeledger/thor"
)

type UseGasFunc func(gas uint64)

// Context binds storage helpers to a contract address and the state they operate on.
type Context struct {
	address thor.Address
	state   *state.State
	charger UseGasFunc
}

func NewContext(address thor.Address, state *state.State, charger UseGasFunc) *Context {
	return &Context{
		address: address,
		state:   state,
		charger: charger,
	}
}

func (c *Context) Address() thor.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) UseGas(gas uint64) {
	if c.charger != nil {
		c.charger(gas)
	}
}

// slots returns the count of 32-byte words occupied by an encoded value.
func slots(length int) uint64 {
	return (uint64(length) + 31) / 32
}
