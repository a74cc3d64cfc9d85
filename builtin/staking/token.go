// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakeledger/thor"
)

// Token is the capability the staking contract needs from the staking token.
// Implementations may call back into the staking contract before returning.
type Token interface {
	// TransferFrom moves amount from owner to recipient, spending the staking contract's allowance.
	TransferFrom(owner, recipient thor.Address, amount *uint256.Int) error
	// Transfer moves amount from the staking contract to recipient.
	Transfer(recipient thor.Address, amount *uint256.Int) error
	// Mint creates amount of new tokens for to.
	Mint(to thor.Address, amount *uint256.Int) error
}

// TokenBinder binds the Token at the given address.
type TokenBinder func(address thor.Address) Token
