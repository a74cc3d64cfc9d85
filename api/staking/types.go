// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/stakeledger/thor"
)

// Params for marshal staking params
type Params struct {
	StakingToken     thor.Address          `json:"stakingToken"`
	RewardMultiplier *math.HexOrDecimal256 `json:"rewardMultiplier"`
	Now              uint64                `json:"now"`
}

// Account for marshal a staking account
type Account struct {
	Principal      *math.HexOrDecimal256 `json:"principal"`
	Available      *math.HexOrDecimal256 `json:"available"`
	LastRewardTime uint64                `json:"lastRewardTime"`
	// reward accrued since lastRewardTime at the current ledger time
	PendingReward *math.HexOrDecimal256 `json:"pendingReward"`
}

// Operation is the body of a state changing staking request.
// Amount is required by stake and unstake only.
type Operation struct {
	Caller thor.Address          `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount,omitempty"`
}
