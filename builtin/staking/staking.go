// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/builtin/solidity"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/state"
	"github.com/vechain/stakeledger/thor"
)

var logger = log.WithContext("pkg", "staking")

// Staking implements the staking ledger: accounts lock the staking token as principal,
// accrue reward over ledger time and either claim it as newly minted tokens or compound it.
type Staking struct {
	addr      thor.Address
	storage   *storage
	guard     *guard
	bindToken TokenBinder
}

// New creates a new instance of the staking contract at addr. Storage access is charged
// through charger, which may be nil.
func New(addr thor.Address, state *state.State, bindToken TokenBinder, charger solidity.UseGasFunc) *Staking {
	sctx := solidity.NewContext(addr, state, charger)

	return &Staking{
		addr:    addr,
		storage: newStorage(sctx),
		// the latch is bookkeeping of the call itself, not contract storage paid for by the caller
		guard:     newGuard(solidity.NewContext(addr, state, nil)),
		bindToken: bindToken,
	}
}

// Address returns the contract address.
func (s *Staking) Address() thor.Address {
	return s.addr
}

// Initialize stores the global parameters. It can only be done once.
func (s *Staking) Initialize(params *Params) error {
	if params == nil || params.RewardMultiplier == nil {
		return errors.New("incomplete staking params")
	}
	if params.StakingToken.IsZero() {
		return ErrZeroStakingToken
	}
	if err := s.storage.initParams(params); err != nil {
		return err
	}
	logger.Debug("initialized", "token", params.StakingToken, "multiplier", params.RewardMultiplier)
	return nil
}

// Params returns the global parameters.
func (s *Staking) Params() (*Params, error) {
	return s.storage.getParams()
}

// GetAccount returns the stored record of addr, a zero valued record if it never staked.
func (s *Staking) GetAccount(addr thor.Address) (*Account, error) {
	if _, err := s.storage.getParams(); err != nil {
		return nil, err
	}
	return s.storage.getAccount(addr)
}

// PendingReward returns the reward addr would accrue if an operation ran at now,
// not including what is already available.
func (s *Staking) PendingReward(addr thor.Address, now uint64) (*uint256.Int, error) {
	params, err := s.storage.getParams()
	if err != nil {
		return nil, err
	}
	acc, err := s.storage.getAccount(addr)
	if err != nil {
		return nil, err
	}
	return pendingReward(acc, params, now)
}

// Stake pulls amount of the staking token from account and adds it to its principal.
func (s *Staking) Stake(account thor.Address, amount *uint256.Int, now uint64) (*Account, error) {
	release, err := s.guard.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	params, err := s.storage.getParams()
	if err != nil {
		return nil, err
	}

	if err := s.bindToken(params.StakingToken).TransferFrom(account, s.addr, amount); err != nil {
		return nil, err
	}

	acc, err := s.storage.getAccount(account)
	if err != nil {
		return nil, err
	}
	updated, err := updateBalance(acc, params, amount, true, now)
	if err != nil {
		return nil, err
	}
	if err := s.storage.setAccount(account, updated, acc.IsEmpty()); err != nil {
		return nil, err
	}

	logger.Debug("staked", "account", account, "amount", amount, "principal", updated.Principal)
	return updated, nil
}

// Unstake removes amount from the principal of account and sends it back. It fails with
// ErrInsufficientAmount if amount exceeds the principal, leaving the record untouched.
func (s *Staking) Unstake(account thor.Address, amount *uint256.Int, now uint64) (*Account, error) {
	release, err := s.guard.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	params, err := s.storage.getParams()
	if err != nil {
		return nil, err
	}
	acc, err := s.storage.getAccount(account)
	if err != nil {
		return nil, err
	}
	updated, err := updateBalance(acc, params, amount, false, now)
	if err != nil {
		return nil, err
	}
	// persisted before the token is called
	if err := s.storage.setAccount(account, updated, acc.IsEmpty()); err != nil {
		return nil, err
	}

	if err := s.bindToken(params.StakingToken).Transfer(account, amount); err != nil {
		return nil, err
	}

	logger.Debug("unstaked", "account", account, "amount", amount, "principal", updated.Principal)
	return updated, nil
}

// Claim mints the whole available reward of account to it and returns the claimed amount.
func (s *Staking) Claim(account thor.Address, now uint64) (*uint256.Int, error) {
	release, err := s.guard.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	params, err := s.storage.getParams()
	if err != nil {
		return nil, err
	}
	acc, err := s.storage.getAccount(account)
	if err != nil {
		return nil, err
	}
	updated, err := updateBalance(acc, params, new(uint256.Int), true, now)
	if err != nil {
		return nil, err
	}

	claimed := updated.Available
	updated.Available = new(uint256.Int)
	if err := s.storage.setAccount(account, updated, acc.IsEmpty()); err != nil {
		return nil, err
	}

	if !claimed.IsZero() {
		if err := s.bindToken(params.StakingToken).Mint(account, claimed); err != nil {
			return nil, err
		}
	}

	logger.Debug("claimed", "account", account, "amount", claimed)
	return claimed, nil
}

// Restake compounds the available reward of account into its principal without any token movement.
// It returns the compounded amount along with the updated record.
func (s *Staking) Restake(account thor.Address, now uint64) (*uint256.Int, *Account, error) {
	release, err := s.guard.Acquire()
	if err != nil {
		return nil, nil, err
	}
	defer release()

	params, err := s.storage.getParams()
	if err != nil {
		return nil, nil, err
	}
	acc, err := s.storage.getAccount(account)
	if err != nil {
		return nil, nil, err
	}
	updated, err := updateBalance(acc, params, new(uint256.Int), true, now)
	if err != nil {
		return nil, nil, err
	}

	compounded := updated.Available
	principal, overflow := new(uint256.Int).AddOverflow(updated.Principal, compounded)
	if overflow {
		return nil, nil, ErrArithmeticOverflow
	}
	updated.Principal = principal
	updated.Available = new(uint256.Int)

	if err := s.storage.setAccount(account, updated, acc.IsEmpty()); err != nil {
		return nil, nil, err
	}

	logger.Debug("restaked", "account", account, "amount", compounded, "principal", updated.Principal)
	return compounded, updated, nil
}
