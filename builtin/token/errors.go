// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/builtin/reverts"
)

var (
	ErrInsufficientBalance   = reverts.NewRequireError("insufficient balance")
	ErrInsufficientAllowance = reverts.NewRequireError("insufficient allowance")
	ErrNotMinter             = reverts.NewRequireError("not minter")
	ErrZeroAddress           = reverts.NewRequireError("zero address")
	ErrAlreadyInitialized    = reverts.NewRequireError("already initialized")
	ErrNotInitialized        = reverts.NewRequireError("not initialized")

	ErrSupplyOverflow = errors.New("total supply overflow")
)
