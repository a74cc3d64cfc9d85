// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/vechain/stakeledger/abi"
)

func TestRequireError(t *testing.T) {
	err := NewRequireError("insufficient amount")
	assert.Equal(t, "insufficient amount", err.Error())

	reason, unpackErr := abi.UnpackRevert(err.Bytes())
	assert.NoError(t, unpackErr)
	assert.Equal(t, "insufficient amount", reason)

	var nilErr *ErrRequire
	assert.Nil(t, nilErr.Bytes())
}

func TestIsRevertErr(t *testing.T) {
	revert := NewRequireError("reentrant call")

	assert.True(t, IsRevertErr(revert))
	assert.True(t, IsRevertErr(errors.Wrap(revert, "staking")))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr("not an error"))
	assert.False(t, IsRevertErr(errors.New("fatal")))

	assert.Equal(t, "reentrant call", Reason(errors.Wrap(revert, "staking")))
	assert.Equal(t, "", Reason(errors.New("fatal")))
}
