// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/builtin/solidity"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/state"
	"github.com/vechain/stakeledger/thor"
)

var (
	logger = log.WithContext("pkg", "token")

	slotMetadata    = nameToSlot("metadata")
	slotTotalSupply = nameToSlot("total-supply")
	slotBalances    = nameToSlot("balances")
	slotAllowances  = nameToSlot("allowances")
)

func nameToSlot(name string) thor.Bytes32 {
	return thor.BytesToBytes32([]byte(name))
}

// Metadata describes the token. Minter is the only account allowed to mint.
type Metadata struct {
	Name     string
	Symbol   string
	Decimals uint8
	Minter   thor.Address
}

type allowanceKey struct {
	owner   thor.Address
	spender thor.Address
}

func (k allowanceKey) Bytes() []byte {
	return append(k.owner.Bytes(), k.spender.Bytes()...)
}

// Token is a fungible token with ERC20 semantics kept in contract storage.
type Token struct {
	addr        thor.Address
	metadata    *solidity.Raw[*Metadata]
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[thor.Address, *uint256.Int]
	allowances  *solidity.Mapping[allowanceKey, *uint256.Int]
}

// New binds the token contract at addr.
func New(addr thor.Address, state *state.State, charger solidity.UseGasFunc) *Token {
	sctx := solidity.NewContext(addr, state, charger)
	return &Token{
		addr:        addr,
		metadata:    solidity.NewRaw[*Metadata](sctx, slotMetadata),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
		balances:    solidity.NewMapping[thor.Address, *uint256.Int](sctx, slotBalances),
		allowances:  solidity.NewMapping[allowanceKey, *uint256.Int](sctx, slotAllowances),
	}
}

func (t *Token) Address() thor.Address {
	return t.addr
}

// Initialize stores the token metadata. It can only be done once.
func (t *Token) Initialize(metadata *Metadata) error {
	_, exists, err := t.metadata.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get metadata")
	}
	if exists {
		return ErrAlreadyInitialized
	}
	if err := t.metadata.Set(metadata, true); err != nil {
		return errors.Wrap(err, "failed to set metadata")
	}
	logger.Debug("initialized", "name", metadata.Name, "symbol", metadata.Symbol, "minter", metadata.Minter)
	return nil
}

func (t *Token) Metadata() (*Metadata, error) {
	metadata, exists, err := t.metadata.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get metadata")
	}
	if !exists {
		return nil, ErrNotInitialized
	}
	return metadata, nil
}

func (t *Token) TotalSupply() (*uint256.Int, error) {
	supply, err := t.totalSupply.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get total supply")
	}
	return supply, nil
}

func (t *Token) BalanceOf(addr thor.Address) (*uint256.Int, error) {
	balance, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return balance, nil
}

func (t *Token) Allowance(owner, spender thor.Address) (*uint256.Int, error) {
	allowance, err := t.allowances.Get(allowanceKey{owner, spender})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get allowance")
	}
	return allowance, nil
}

func (t *Token) setBalance(addr thor.Address, old, balance *uint256.Int) error {
	if err := t.balances.Set(addr, balance, old.IsZero()); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return nil
}

// Transfer moves amount from one account to another.
func (t *Token) Transfer(from, to thor.Address, amount *uint256.Int) error {
	if to.IsZero() {
		return ErrZeroAddress
	}
	fromBalance, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBalance.Lt(amount) {
		return ErrInsufficientBalance
	}
	if from == to || amount.IsZero() {
		return nil
	}
	if err := t.setBalance(from, fromBalance, new(uint256.Int).Sub(fromBalance, amount)); err != nil {
		return err
	}
	return t.credit(to, amount)
}

// Approve sets the amount spender may move out of the owner's balance.
func (t *Token) Approve(owner, spender thor.Address, amount *uint256.Int) error {
	if spender.IsZero() {
		return ErrZeroAddress
	}
	key := allowanceKey{owner, spender}
	old, err := t.allowances.Get(key)
	if err != nil {
		return errors.Wrap(err, "failed to get allowance")
	}
	if err := t.allowances.Set(key, amount, old.IsZero()); err != nil {
		return errors.Wrap(err, "failed to set allowance")
	}
	return nil
}

// TransferFrom moves amount from owner to recipient on behalf of spender, consuming its allowance.
func (t *Token) TransferFrom(spender, owner, recipient thor.Address, amount *uint256.Int) error {
	key := allowanceKey{owner, spender}
	allowance, err := t.allowances.Get(key)
	if err != nil {
		return errors.Wrap(err, "failed to get allowance")
	}
	if allowance.Lt(amount) {
		return ErrInsufficientAllowance
	}
	if err := t.Transfer(owner, recipient, amount); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}
	if err := t.allowances.Set(key, new(uint256.Int).Sub(allowance, amount), false); err != nil {
		return errors.Wrap(err, "failed to set allowance")
	}
	return nil
}

// Mint creates amount of tokens for to. Only the minter may mint.
func (t *Token) Mint(caller, to thor.Address, amount *uint256.Int) error {
	metadata, err := t.Metadata()
	if err != nil {
		return err
	}
	if caller != metadata.Minter {
		return ErrNotMinter
	}
	if to.IsZero() {
		return ErrZeroAddress
	}
	return t.Credit(to, amount)
}

// Credit creates amount of tokens for to without any permission check. Used by genesis allocation.
func (t *Token) Credit(to thor.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	if err := t.totalSupply.Add(amount); err != nil {
		if errors.Is(err, solidity.ErrUint256Overflow) {
			return ErrSupplyOverflow
		}
		return errors.Wrap(err, "failed to add total supply")
	}
	return t.credit(to, amount)
}

func (t *Token) credit(to thor.Address, amount *uint256.Int) error {
	balance, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	// cannot overflow as long as balances sum up to the total supply
	return t.setBalance(to, balance, new(uint256.Int).Add(balance, amount))
}
