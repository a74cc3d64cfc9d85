// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/builtin/reverts"
)

var (
	ErrInsufficientAmount = reverts.NewRequireError("insufficient amount")
	ErrReentrantCall      = reverts.NewRequireError("reentrant call")
	ErrAlreadyInitialized = reverts.NewRequireError("already initialized")
	ErrNotInitialized     = reverts.NewRequireError("not initialized")
	ErrZeroStakingToken   = reverts.NewRequireError("staking token is zero address")

	// ErrArithmeticOverflow is fatal: the clause is aborted rather than reverted.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
)
