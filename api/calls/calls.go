// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package calls

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/api/utils"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/stakedb"
	"github.com/vechain/stakeledger/thor"
	"github.com/vechain/stakeledger/tx"
)

type Calls struct {
	ledger       *ledger.Ledger
	callGasLimit uint64
}

func New(ledger *ledger.Ledger, callGasLimit uint64) *Calls {
	return &Calls{
		ledger,
		callGasLimit,
	}
}

func (c *Calls) handleCall(w http.ResponseWriter, req *http.Request) error {
	var callData CallData
	if err := utils.ParseJSON(req.Body, &callData); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	gas := callData.Gas
	if gas > c.callGasLimit {
		return utils.Forbidden(errors.New("gas: exceeds limit"))
	} else if gas == 0 {
		gas = c.callGasLimit
	}
	var caller thor.Address
	if callData.Caller != nil {
		caller = *callData.Caller
	}
	var data []byte
	if callData.Data != "" {
		var err error
		if data, err = hexutil.Decode(callData.Data); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "data"))
		}
	}

	out, err := c.ledger.Call(caller, tx.NewClause(callData.To).WithData(data), gas)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertCallResultWithInputGas(out, gas))
}

func (c *Calls) handleGetReceipt(w http.ResponseWriter, req *http.Request) error {
	callID, err := thor.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	receipt, err := c.ledger.Receipt(req.Context(), callID)
	if err != nil {
		if errors.Is(err, stakedb.ErrNotFound) {
			return utils.NotFound(errors.WithMessage(err, "receipt"))
		}
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (c *Calls) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /calls").
		HandlerFunc(utils.WrapHandlerFunc(c.handleCall))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /calls/{id}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetReceipt))
}
