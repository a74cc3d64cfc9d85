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

var (
	slotParams   = nameToSlot("params")
	slotAccounts = nameToSlot("accounts")
	slotLatch    = nameToSlot("reentrancy-latch")
)

func nameToSlot(name string) thor.Bytes32 {
	return thor.BytesToBytes32([]byte(name))
}

// storage is the typed repository of the staking contract.
type storage struct {
	accounts *solidity.Mapping[thor.Address, *Account]
	params   *solidity.Raw[*Params]
}

func newStorage(sctx *solidity.Context) *storage {
	return &storage{
		accounts: solidity.NewMapping[thor.Address, *Account](sctx, slotAccounts),
		params:   solidity.NewRaw[*Params](sctx, slotParams),
	}
}

// getAccount returns the stored record, or a zero valued one.
func (s *storage) getAccount(addr thor.Address) (*Account, error) {
	acc, err := s.accounts.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}
	return acc.normalize(), nil
}

// setAccount overwrites the record. isNew selects the storage price of a fresh slot.
func (s *storage) setAccount(addr thor.Address, acc *Account, isNew bool) error {
	if err := s.accounts.Set(addr, acc, isNew); err != nil {
		return errors.Wrap(err, "failed to set account")
	}
	return nil
}
