// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/builtin/solidity"
	"github.com/vechain/stakeledger/thor"
)

var latchEngaged = thor.BytesToBytes32([]byte{1})

// guard is the reentrancy latch of a staking contract. The latch is kept in contract storage, so every
// Staking bound to the same state observes it, including instances created by nested calls.
type guard struct {
	latch *solidity.Bytes32
}

func newGuard(sctx *solidity.Context) *guard {
	return &guard{solidity.NewBytes32(sctx, slotLatch)}
}

// Acquire engages the latch, or fails with ErrReentrantCall if it is already engaged.
// The returned release must be called on every exit path, usually deferred.
func (g *guard) Acquire() (release func(), err error) {
	engaged, err := g.latch.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read reentrancy latch")
	}
	if !engaged.IsZero() {
		return nil, ErrReentrantCall
	}
	g.latch.Set(&latchEngaged)
	return func() { g.latch.Set(nil) }, nil
}

// Engaged reports whether a guarded operation is in progress.
func (g *guard) Engaged() (bool, error) {
	engaged, err := g.latch.Get()
	if err != nil {
		return false, err
	}
	return !engaged.IsZero(), nil
}
