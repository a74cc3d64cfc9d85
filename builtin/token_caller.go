// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/builtin/gascharger"
	"github.com/vechain/stakeledger/builtin/reverts"
	"github.com/vechain/stakeledger/builtin/token"
	"github.com/vechain/stakeledger/thor"
	"github.com/vechain/stakeledger/xenv"
)

// ErrTokenCallFailed is returned when the token reports failure without reverting.
var ErrTokenCallFailed = reverts.NewRequireError("token call failed")

// tokenCaller calls a token contract through the VM on behalf of the contract running in env.
// The token runs in its own call frame and may call back into the caller.
type tokenCaller struct {
	env     *xenv.Environment
	charger *gascharger.Charger
	address thor.Address
}

func (c *tokenCaller) call(method string, args ...any) error {
	m := Token.mustMethod(method)
	data, err := m.EncodeInput(args...)
	if err != nil {
		panic(errors.WithMessage(err, "encode token call"))
	}

	if c.charger != nil {
		c.charger.Charge(thor.CallGas)
	}

	gas := c.env.Gas()
	ret, leftOverGas, vmerr := c.env.VM().Call(c.env.To(), c.address, data, gas)
	c.env.UseGas(gas - leftOverGas)
	if vmerr != nil {
		if reverts.IsRevertErr(vmerr) {
			return vmerr
		}
		c.env.Stop(vmerr)
	}

	var ok bool
	if err := m.DecodeOutput(ret, &ok); err != nil {
		c.env.Stop(errors.WithMessage(err, "decode token output"))
	}
	if !ok {
		return ErrTokenCallFailed
	}
	return nil
}

func (c *tokenCaller) TransferFrom(owner, recipient thor.Address, amount *uint256.Int) error {
	return c.call("transferFrom", common.Address(owner), common.Address(recipient), amount.ToBig())
}

func (c *tokenCaller) Transfer(recipient thor.Address, amount *uint256.Int) error {
	return c.call("transfer", common.Address(recipient), amount.ToBig())
}

func (c *tokenCaller) Mint(to thor.Address, amount *uint256.Int) error {
	return c.call("mint", common.Address(to), amount.ToBig())
}

// directToken calls the token in process, acting as owner.
type directToken struct {
	token *token.Token
	owner thor.Address
}

func (d *directToken) TransferFrom(owner, recipient thor.Address, amount *uint256.Int) error {
	return d.token.TransferFrom(d.owner, owner, recipient, amount)
}

func (d *directToken) Transfer(recipient thor.Address, amount *uint256.Int) error {
	return d.token.Transfer(d.owner, recipient, amount)
}

func (d *directToken) Mint(to thor.Address, amount *uint256.Int) error {
	return d.token.Mint(d.owner, to, amount)
}
