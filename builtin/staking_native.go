// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/vechain/stakeledger/builtin/gascharger"
	"github.com/vechain/stakeledger/builtin/staking"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/thor"
	"github.com/vechain/stakeledger/xenv"
)

var logger = log.WithContext("pkg", "builtin")

func traceGas(method string, env *xenv.Environment, charger *gascharger.Charger) {
	logger.Trace("staking gas charged", "method", method, "caller", env.Caller(), "gas", charger.String())
}

func addressTopic(addr thor.Address) thor.Bytes32 {
	return thor.BytesToBytes32(addr.Bytes())
}

func init() {
	stakedEvent := Staking.mustEvent("Staked")
	unstakedEvent := Staking.mustEvent("Unstaked")
	claimedEvent := Staking.mustEvent("Claimed")
	restakedEvent := Staking.mustEvent("Restaked")

	defines := []struct {
		name string
		run  func(env *xenv.Environment) []any
	}{
		// constructor
		{"", func(env *xenv.Environment) []any {
			var args struct {
				StakingToken     common.Address
				RewardMultiplier *big.Int
			}
			env.ParseArgs(&args)
			charger := gascharger.New(env)

			err := Staking.NativeMetered(env, charger).Initialize(&staking.Params{
				StakingToken:     thor.Address(args.StakingToken),
				RewardMultiplier: uint256.MustFromBig(args.RewardMultiplier),
			})
			if err != nil {
				panic(err)
			}
			return nil
		}},
		{"stake", func(env *xenv.Environment) []any {
			var amount *big.Int
			env.ParseArgs(&amount)
			charger := gascharger.New(env)

			acc, err := Staking.NativeMetered(env, charger).Stake(env.Caller(), uint256.MustFromBig(amount), env.BlockContext().Time)
			if err != nil {
				panic(err)
			}
			traceGas("stake", env, charger)
			env.Log(stakedEvent, Staking.Address, []thor.Bytes32{addressTopic(env.Caller())}, amount, acc.Principal.ToBig())
			return nil
		}},
		{"unstake", func(env *xenv.Environment) []any {
			var amount *big.Int
			env.ParseArgs(&amount)
			charger := gascharger.New(env)

			acc, err := Staking.NativeMetered(env, charger).Unstake(env.Caller(), uint256.MustFromBig(amount), env.BlockContext().Time)
			if err != nil {
				panic(err)
			}
			traceGas("unstake", env, charger)
			env.Log(unstakedEvent, Staking.Address, []thor.Bytes32{addressTopic(env.Caller())}, amount, acc.Principal.ToBig())
			return nil
		}},
		{"restake", func(env *xenv.Environment) []any {
			charger := gascharger.New(env)

			compounded, acc, err := Staking.NativeMetered(env, charger).Restake(env.Caller(), env.BlockContext().Time)
			if err != nil {
				panic(err)
			}
			traceGas("restake", env, charger)
			env.Log(restakedEvent, Staking.Address, []thor.Bytes32{addressTopic(env.Caller())}, compounded.ToBig(), acc.Principal.ToBig())
			return nil
		}},
		{"claim", func(env *xenv.Environment) []any {
			charger := gascharger.New(env)

			claimed, err := Staking.NativeMetered(env, charger).Claim(env.Caller(), env.BlockContext().Time)
			if err != nil {
				panic(err)
			}
			traceGas("claim", env, charger)
			env.Log(claimedEvent, Staking.Address, []thor.Bytes32{addressTopic(env.Caller())}, claimed.ToBig())
			return nil
		}},
		{"accountOf", func(env *xenv.Environment) []any {
			var account common.Address
			env.ParseArgs(&account)
			charger := gascharger.New(env)

			acc, err := Staking.NativeMetered(env, charger).GetAccount(thor.Address(account))
			if err != nil {
				panic(err)
			}
			return []any{acc.Principal.ToBig(), acc.Available.ToBig(), acc.LastRewardTime}
		}},
		{"pendingReward", func(env *xenv.Environment) []any {
			var account common.Address
			env.ParseArgs(&account)
			charger := gascharger.New(env)

			reward, err := Staking.NativeMetered(env, charger).PendingReward(thor.Address(account), env.BlockContext().Time)
			if err != nil {
				panic(err)
			}
			return []any{reward.ToBig()}
		}},
		{"stakingToken", func(env *xenv.Environment) []any {
			charger := gascharger.New(env)

			token, err := Staking.NativeMetered(env, charger).StakingToken()
			if err != nil {
				panic(err)
			}
			return []any{token}
		}},
		{"rewardMultiplier", func(env *xenv.Environment) []any {
			charger := gascharger.New(env)

			multiplier, err := Staking.NativeMetered(env, charger).RewardMultiplier()
			if err != nil {
				panic(err)
			}
			return []any{multiplier.ToBig()}
		}},
	}
	registerNativeMethods(Staking.contract, defines)
}
