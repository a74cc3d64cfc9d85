// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/thor"
)

// Params are the global parameters fixed at construction.
type Params struct {
	StakingToken     thor.Address
	RewardMultiplier *uint256.Int // reward per staked account per unit of ledger time
}

func (s *storage) getParams() (*Params, error) {
	params, exists, err := s.params.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get params")
	}
	if !exists {
		return nil, ErrNotInitialized
	}
	return params, nil
}

func (s *storage) initParams(params *Params) error {
	_, exists, err := s.params.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get params")
	}
	if exists {
		return ErrAlreadyInitialized
	}
	if err := s.params.Set(params, true); err != nil {
		return errors.Wrap(err, "failed to set params")
	}
	return nil
}

// StakingToken returns the address of the staking token.
func (s *Staking) StakingToken() (thor.Address, error) {
	params, err := s.storage.getParams()
	if err != nil {
		return thor.Address{}, err
	}
	return params.StakingToken, nil
}

// RewardMultiplier returns the reward accrued per unit of ledger time.
func (s *Staking) RewardMultiplier() (*uint256.Int, error) {
	params, err := s.storage.getParams()
	if err != nil {
		return nil, err
	}
	return params.RewardMultiplier, nil
}
