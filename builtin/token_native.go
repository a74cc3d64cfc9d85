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
	"github.com/vechain/stakeledger/thor"
	"github.com/vechain/stakeledger/xenv"
)

func init() {
	transferEvent := Token.mustEvent("Transfer")
	approvalEvent := Token.mustEvent("Approval")

	metadata := func(env *xenv.Environment) []any {
		md, err := Token.NativeMetered(env.State(), gascharger.New(env)).Metadata()
		if err != nil {
			panic(err)
		}
		switch env.Method().Name() {
		case "name":
			return []any{md.Name}
		case "symbol":
			return []any{md.Symbol}
		case "decimals":
			return []any{md.Decimals}
		default:
			return []any{md.Minter}
		}
	}

	defines := []struct {
		name string
		run  func(env *xenv.Environment) []any
	}{
		{"name", metadata},
		{"symbol", metadata},
		{"decimals", metadata},
		{"minter", metadata},
		{"totalSupply", func(env *xenv.Environment) []any {
			supply, err := Token.NativeMetered(env.State(), gascharger.New(env)).TotalSupply()
			if err != nil {
				panic(err)
			}
			return []any{supply.ToBig()}
		}},
		{"balanceOf", func(env *xenv.Environment) []any {
			var owner common.Address
			env.ParseArgs(&owner)

			balance, err := Token.NativeMetered(env.State(), gascharger.New(env)).BalanceOf(thor.Address(owner))
			if err != nil {
				panic(err)
			}
			return []any{balance.ToBig()}
		}},
		{"allowance", func(env *xenv.Environment) []any {
			var args struct {
				Owner   common.Address
				Spender common.Address
			}
			env.ParseArgs(&args)

			allowance, err := Token.NativeMetered(env.State(), gascharger.New(env)).Allowance(thor.Address(args.Owner), thor.Address(args.Spender))
			if err != nil {
				panic(err)
			}
			return []any{allowance.ToBig()}
		}},
		{"transfer", func(env *xenv.Environment) []any {
			var args struct {
				To     common.Address
				Amount *big.Int
			}
			env.ParseArgs(&args)

			err := Token.NativeMetered(env.State(), gascharger.New(env)).Transfer(env.Caller(), thor.Address(args.To), uint256.MustFromBig(args.Amount))
			if err != nil {
				panic(err)
			}
			env.Log(transferEvent, Token.Address, []thor.Bytes32{addressTopic(env.Caller()), addressTopic(thor.Address(args.To))}, args.Amount)
			return []any{true}
		}},
		{"approve", func(env *xenv.Environment) []any {
			var args struct {
				Spender common.Address
				Amount  *big.Int
			}
			env.ParseArgs(&args)

			err := Token.NativeMetered(env.State(), gascharger.New(env)).Approve(env.Caller(), thor.Address(args.Spender), uint256.MustFromBig(args.Amount))
			if err != nil {
				panic(err)
			}
			env.Log(approvalEvent, Token.Address, []thor.Bytes32{addressTopic(env.Caller()), addressTopic(thor.Address(args.Spender))}, args.Amount)
			return []any{true}
		}},
		{"transferFrom", func(env *xenv.Environment) []any {
			var args struct {
				From   common.Address
				To     common.Address
				Amount *big.Int
			}
			env.ParseArgs(&args)

			err := Token.NativeMetered(env.State(), gascharger.New(env)).TransferFrom(env.Caller(), thor.Address(args.From), thor.Address(args.To), uint256.MustFromBig(args.Amount))
			if err != nil {
				panic(err)
			}
			env.Log(transferEvent, Token.Address, []thor.Bytes32{addressTopic(thor.Address(args.From)), addressTopic(thor.Address(args.To))}, args.Amount)
			return []any{true}
		}},
		{"mint", func(env *xenv.Environment) []any {
			var args struct {
				To     common.Address
				Amount *big.Int
			}
			env.ParseArgs(&args)

			err := Token.NativeMetered(env.State(), gascharger.New(env)).Mint(env.Caller(), thor.Address(args.To), uint256.MustFromBig(args.Amount))
			if err != nil {
				panic(err)
			}
			env.Log(transferEvent, Token.Address, []thor.Bytes32{addressTopic(thor.Address{}), addressTopic(thor.Address(args.To))}, args.Amount)
			return []any{true}
		}},
	}
	registerNativeMethods(Token.contract, defines)
}
