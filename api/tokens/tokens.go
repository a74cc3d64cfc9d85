// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/api/utils"
	"github.com/vechain/stakeledger/builtin"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/thor"
	"github.com/vechain/stakeledger/tx"
)

type Tokens struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Tokens {
	return &Tokens{ledger}
}

func (t *Tokens) handleGetToken(w http.ResponseWriter, _ *http.Request) error {
	token := builtin.Token.Native(t.ledger.State())
	metadata, err := token.Metadata()
	if err != nil {
		return utils.ReadError(err, "metadata")
	}
	supply, err := token.TotalSupply()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Token{
		Address:     token.Address(),
		Name:        metadata.Name,
		Symbol:      metadata.Symbol,
		Decimals:    metadata.Decimals,
		Minter:      metadata.Minter,
		TotalSupply: utils.HexOrDecimal(supply),
	})
}

func (t *Tokens) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	balance, err := builtin.Token.Native(t.ledger.State()).BalanceOf(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{utils.HexOrDecimal(balance)})
}

func (t *Tokens) handleGetAllowance(w http.ResponseWriter, req *http.Request) error {
	owner, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	spender, err := thor.ParseAddress(mux.Vars(req)["spender"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "spender"))
	}
	allowance, err := builtin.Token.Native(t.ledger.State()).Allowance(owner, spender)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Allowance{utils.HexOrDecimal(allowance)})
}

func (t *Tokens) execute(req *http.Request, w http.ResponseWriter, caller thor.Address, clause *tx.Clause) error {
	receipt, err := t.ledger.Execute(req.Context(), caller, clause)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (t *Tokens) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	var body Transfer
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Caller.IsZero() {
		return utils.BadRequest(errors.New("caller: missing"))
	}
	amount, err := utils.Amount(body.Amount)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "amount"))
	}
	clause, err := builtin.Token.Clause("transfer", common.Address(body.Recipient), amount.ToBig())
	if err != nil {
		return err
	}
	return t.execute(req, w, body.Caller, clause)
}

func (t *Tokens) handleApprove(w http.ResponseWriter, req *http.Request) error {
	var body Approve
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Caller.IsZero() {
		return utils.BadRequest(errors.New("caller: missing"))
	}
	amount, err := utils.Amount(body.Amount)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "amount"))
	}
	clause, err := builtin.Token.Clause("approve", common.Address(body.Spender), amount.ToBig())
	if err != nil {
		return err
	}
	return t.execute(req, w, body.Caller, clause)
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /tokens").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetToken))
	sub.Path("/transfer").
		Methods(http.MethodPost).
		Name("POST /tokens/transfer").
		HandlerFunc(utils.WrapHandlerFunc(t.handleTransfer))
	sub.Path("/approve").
		Methods(http.MethodPost).
		Name("POST /tokens/approve").
		HandlerFunc(utils.WrapHandlerFunc(t.handleApprove))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetBalance))
	sub.Path("/{address}/allowances/{spender}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}/allowances/{spender}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetAllowance))
}
