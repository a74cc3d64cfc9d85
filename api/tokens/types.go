// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/stakeledger/thor"
)

// Token for marshal token metadata
type Token struct {
	Address     thor.Address          `json:"address"`
	Name        string                `json:"name"`
	Symbol      string                `json:"symbol"`
	Decimals    uint8                 `json:"decimals"`
	Minter      thor.Address          `json:"minter"`
	TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
}

// Balance for marshal the holding of an account
type Balance struct {
	Balance *math.HexOrDecimal256 `json:"balance"`
}

type Allowance struct {
	Allowance *math.HexOrDecimal256 `json:"allowance"`
}

// Transfer moves amount from caller to recipient.
type Transfer struct {
	Caller    thor.Address          `json:"caller"`
	Recipient thor.Address          `json:"recipient"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
}

// Approve sets the allowance of spender over the caller's balance.
type Approve struct {
	Caller  thor.Address          `json:"caller"`
	Spender thor.Address          `json:"spender"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}
