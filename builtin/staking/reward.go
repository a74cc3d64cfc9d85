// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
)

// pendingReward is the reward accrued by acc between its last accrual and now:
// (now - lastRewardTime) * rewardMultiplier. Nothing accrues before the first accrual,
// or when now is not after the last one.
func pendingReward(acc *Account, params *Params, now uint64) (*uint256.Int, error) {
	if acc.LastRewardTime == 0 || now <= acc.LastRewardTime {
		return new(uint256.Int), nil
	}
	elapsed := uint256.NewInt(now - acc.LastRewardTime)
	reward, overflow := new(uint256.Int).MulOverflow(elapsed, params.RewardMultiplier)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return reward, nil
}

// updateBalance accrues the pending reward of acc into available, then deposits amount into
// principal, or withdraws it. The returned record is a copy with lastRewardTime moved forward to now; it is not persisted.
func updateBalance(acc *Account, params *Params, amount *uint256.Int, isDeposit bool, now uint64) (*Account, error) {
	reward, err := pendingReward(acc, params, now)
	if err != nil {
		return nil, err
	}

	available, overflow := new(uint256.Int).AddOverflow(acc.Available, reward)
	if overflow {
		return nil, ErrArithmeticOverflow
	}

	var principal *uint256.Int
	if isDeposit {
		principal, overflow = new(uint256.Int).AddOverflow(acc.Principal, amount)
		if overflow {
			return nil, ErrArithmeticOverflow
		}
	} else {
		if acc.Principal.Lt(amount) {
			return nil, ErrInsufficientAmount
		}
		principal = new(uint256.Int).Sub(acc.Principal, amount)
	}

	return &Account{
		Principal:      principal,
		Available:      available,
		LastRewardTime: max(acc.LastRewardTime, now),
	}, nil
}
