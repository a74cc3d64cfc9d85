// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/abi"
	"github.com/vechain/stakeledger/builtin"
	"github.com/vechain/stakeledger/builtin/token"
	"github.com/vechain/stakeledger/runtime"
	"github.com/vechain/stakeledger/thor"
	"github.com/vechain/stakeledger/tx"
	"github.com/vechain/stakeledger/xenv"
)

// Allocation credits an initial token balance.
type Allocation struct {
	Address thor.Address
	Amount  *uint256.Int
}

// Genesis describes the initial deployment of the token and staking contracts.
type Genesis struct {
	Deployer         thor.Address
	TokenName        string
	TokenSymbol      string
	TokenDecimals    uint8
	RewardMultiplier *uint256.Int
	Allocations      []Allocation
}

// DevAccounts are funded by the dev genesis.
var DevAccounts = []thor.Address{
	thor.MustParseAddress("0xf077b491b355e64048ce21e3a6fc4751eeea77fa"),
	thor.MustParseAddress("0x435933c8064b4ae76be665428e0307ef2ccfbd68"),
	thor.MustParseAddress("0x0f872421dc479f3c11edd89512731814d0598db5"),
}

// DevGenesis funds each dev account with 1e24 base units and rewards one base unit per second.
func DevGenesis() *Genesis {
	amount := uint256.MustFromBig(new(big.Int).Exp(big.NewInt(10), big.NewInt(24), nil))
	g := &Genesis{
		Deployer:         DevAccounts[0],
		TokenName:        "Stake Token",
		TokenSymbol:      "STK",
		TokenDecimals:    18,
		RewardMultiplier: uint256.NewInt(1),
	}
	for _, addr := range DevAccounts {
		g.Allocations = append(g.Allocations, Allocation{addr, amount})
	}
	return g
}

// ConstructorClause builds the clause deploying the staking contract.
func ConstructorClause(stakingToken thor.Address, rewardMultiplier *uint256.Int) (*tx.Clause, error) {
	args, err := builtin.Staking.ABI.Constructor().EncodeInput(common.Address(stakingToken), rewardMultiplier.ToBig())
	if err != nil {
		return nil, err
	}
	return tx.NewClause(builtin.Staking.Address).WithData(append(abi.EmptyMethodID[:], args...)), nil
}

// ApplyGenesis deploys the contracts described by g. It returns false without any change if the
// ledger was deployed before.
func (l *Ledger) ApplyGenesis(g *Genesis) (bool, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	st := l.stater.NewState()
	if _, err := builtin.Staking.Native(st).Params(); err == nil {
		logger.Info("genesis already applied")
		return false, nil
	}

	if g.RewardMultiplier == nil {
		return false, errors.New("genesis: reward multiplier required")
	}

	tk := builtin.Token.Native(st)
	if err := tk.Initialize(&token.Metadata{
		Name:     g.TokenName,
		Symbol:   g.TokenSymbol,
		Decimals: g.TokenDecimals,
		Minter:   builtin.Staking.Address,
	}); err != nil {
		return false, errors.Wrap(err, "genesis: initialize token")
	}
	for _, alloc := range g.Allocations {
		if err := tk.Credit(alloc.Address, alloc.Amount); err != nil {
			return false, errors.Wrap(err, "genesis: allocate")
		}
	}

	clause, err := ConstructorClause(builtin.Token.Address, g.RewardMultiplier)
	if err != nil {
		return false, errors.Wrap(err, "genesis: encode constructor")
	}
	now := l.now()
	out, err := runtime.New(st, 0, now).ExecuteClause(clause, &xenv.TransactionContext{Origin: g.Deployer}, l.gas)
	if err != nil {
		return false, errors.Wrap(err, "genesis: deploy staking")
	}
	if out.VMErr != nil {
		return false, errors.Wrap(out.VMErr, "genesis: deploy staking")
	}

	stage := st.Stage()
	if err := l.stater.Commit(stage); err != nil {
		return false, errors.Wrap(err, "genesis: commit")
	}
	logger.Info("genesis applied", "time", now, "deployer", g.Deployer, "accounts", len(g.Allocations), "hash", stage.Hash())
	return true, nil
}
