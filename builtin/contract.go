// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"fmt"

	"github.com/vechain/stakeledger/abi"
	"github.com/vechain/stakeledger/builtin/gen"
	"github.com/vechain/stakeledger/thor"
	"github.com/vechain/stakeledger/tx"
)

type contract struct {
	name    string
	Address thor.Address
	ABI     *abi.ABI
}

func mustLoadContract(name string) *contract {
	asset := "compiled/" + name + ".abi"
	data := gen.MustABI(asset)
	abi, err := abi.New(data)
	if err != nil {
		panic(fmt.Errorf("load ABI for '%s': %w", name, err))
	}

	return &contract{
		name,
		thor.BytesToAddress([]byte(name)),
		abi,
	}
}

// Name returns the contract name.
func (c *contract) Name() string {
	return c.name
}

func (c *contract) mustMethod(name string) *abi.Method {
	if method, found := c.ABI.MethodByName(name); found {
		return method
	}
	panic("method not found: " + c.name + "." + name)
}

func (c *contract) mustEvent(name string) *abi.Event {
	if event, found := c.ABI.EventByName(name); found {
		return event
	}
	panic("event not found: " + c.name + "." + name)
}

// Clause encodes a call of the named method into a clause targeting the contract.
func (c *contract) Clause(method string, args ...any) (*tx.Clause, error) {
	m, found := c.ABI.MethodByName(method)
	if !found {
		return nil, fmt.Errorf("method not found: %s.%s", c.name, method)
	}
	data, err := m.EncodeInput(args...)
	if err != nil {
		return nil, err
	}
	return tx.NewClause(c.Address).WithData(data), nil
}
