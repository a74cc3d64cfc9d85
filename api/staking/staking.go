// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/api/utils"
	"github.com/vechain/stakeledger/builtin"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/thor"
	"github.com/vechain/stakeledger/tx"
)

type Staking struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Staking {
	return &Staking{ledger}
}

func (s *Staking) handleGetParams(w http.ResponseWriter, _ *http.Request) error {
	params, err := builtin.Staking.Native(s.ledger.State()).Params()
	if err != nil {
		return utils.ReadError(err, "params")
	}
	return utils.WriteJSON(w, &Params{
		StakingToken:     params.StakingToken,
		RewardMultiplier: utils.HexOrDecimal(params.RewardMultiplier),
		Now:              s.ledger.Now(),
	})
}

func (s *Staking) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	contract := builtin.Staking.Native(s.ledger.State())
	acc, err := contract.GetAccount(addr)
	if err != nil {
		return utils.ReadError(err, "account")
	}
	pending, err := contract.PendingReward(addr, s.ledger.Now())
	if err != nil {
		return utils.ReadError(err, "pending reward")
	}
	return utils.WriteJSON(w, &Account{
		Principal:      utils.HexOrDecimal(acc.Principal),
		Available:      utils.HexOrDecimal(acc.Available),
		LastRewardTime: acc.LastRewardTime,
		PendingReward:  utils.HexOrDecimal(pending),
	})
}

// handleOperation returns a handler executing method on behalf of the caller named in the body.
func (s *Staking) handleOperation(method string, withAmount bool) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		var op Operation
		if err := utils.ParseJSON(req.Body, &op); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		if op.Caller.IsZero() {
			return utils.BadRequest(errors.New("caller: missing"))
		}

		var (
			clause *tx.Clause
			err    error
		)
		if withAmount {
			amount, err := utils.Amount(op.Amount)
			if err != nil {
				return utils.BadRequest(errors.WithMessage(err, "amount"))
			}
			clause, err = builtin.Staking.Clause(method, amount.ToBig())
			if err != nil {
				return err
			}
		} else {
			if op.Amount != nil {
				return utils.BadRequest(errors.New("amount: not allowed"))
			}
			if clause, err = builtin.Staking.Clause(method); err != nil {
				return err
			}
		}

		receipt, err := s.ledger.Execute(req.Context(), op.Caller, clause)
		if err != nil {
			return err
		}
		return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
	}
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/params").
		Methods(http.MethodGet).
		Name("GET /staking/params").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetParams))
	sub.Path("/accounts/{address}").
		Methods(http.MethodGet).
		Name("GET /staking/accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetAccount))
	sub.Path("/stake").
		Methods(http.MethodPost).
		Name("POST /staking/stake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleOperation("stake", true)))
	sub.Path("/unstake").
		Methods(http.MethodPost).
		Name("POST /staking/unstake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleOperation("unstake", true)))
	sub.Path("/claim").
		Methods(http.MethodPost).
		Name("POST /staking/claim").
		HandlerFunc(utils.WrapHandlerFunc(s.handleOperation("claim", false)))
	sub.Path("/restake").
		Methods(http.MethodPost).
		Name("POST /staking/restake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleOperation("restake", false)))
}
