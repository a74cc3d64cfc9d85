// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"
)

// Account is the staking record of an account. A zero valued record is the same as no record.
type Account struct {
	Principal      *uint256.Int // locked token balance
	Available      *uint256.Int // accrued, unclaimed reward
	LastRewardTime uint64       // ledger time of the last accrual, 0 if never accrued
}

// IsEmpty returns whether the record holds nothing.
func (a *Account) IsEmpty() bool {
	return a.Principal.IsZero() && a.Available.IsZero() && a.LastRewardTime == 0
}

// normalize replaces absent amounts with zero, as decoded from an empty slot.
func (a *Account) normalize() *Account {
	if a.Principal == nil {
		a.Principal = new(uint256.Int)
	}
	if a.Available == nil {
		a.Available = new(uint256.Int)
	}
	return a
}
