// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/stakeledger/builtin/gascharger"
	"github.com/vechain/stakeledger/builtin/solidity"
	"github.com/vechain/stakeledger/builtin/staking"
	"github.com/vechain/stakeledger/builtin/token"
	"github.com/vechain/stakeledger/state"
	"github.com/vechain/stakeledger/thor"
	"github.com/vechain/stakeledger/xenv"
)

// Builtin contracts binding.
var (
	Staking = &stakingContract{mustLoadContract("Staking")}
	Token   = &tokenContract{mustLoadContract("Token")}
)

type (
	stakingContract struct{ *contract }
	tokenContract   struct{ *contract }
)

func chargeFunc(charger *gascharger.Charger) solidity.UseGasFunc {
	if charger == nil {
		return nil
	}
	return charger.Charge
}

// Native binds the staking contract without metering. The staking token is called in process,
// so no events are emitted by token movements.
func (s *stakingContract) Native(state *state.State) *staking.Staking {
	return staking.New(s.Address, state, func(addr thor.Address) staking.Token {
		return &directToken{token.New(addr, state, nil), s.Address}
	}, nil)
}

// NativeMetered binds the staking contract for a native call. Storage access is charged via charger,
// and the staking token is called through the VM of env.
func (s *stakingContract) NativeMetered(env *xenv.Environment, charger *gascharger.Charger) *staking.Staking {
	return staking.New(s.Address, env.State(), func(addr thor.Address) staking.Token {
		return &tokenCaller{env, charger, addr}
	}, chargeFunc(charger))
}

func (t *tokenContract) Native(state *state.State) *token.Token {
	return token.New(t.Address, state, nil)
}

func (t *tokenContract) NativeMetered(state *state.State, charger *gascharger.Charger) *token.Token {
	return token.New(t.Address, state, chargeFunc(charger))
}
