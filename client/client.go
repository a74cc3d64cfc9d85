// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package client provides an HTTP client to interact with a stake ledger node.
// It offers methods to read staking and token state, submit staking operations,
// simulate calls and filter the recorded events.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/stakeledger/api/calls"
	"github.com/vechain/stakeledger/api/events"
	"github.com/vechain/stakeledger/api/staking"
	"github.com/vechain/stakeledger/api/tokens"
	"github.com/vechain/stakeledger/api/utils"
	"github.com/vechain/stakeledger/thor"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNot200Status = errors.New("not 200 status code")
)

// Client represents the HTTP client for interacting with a stake ledger node.
type Client struct {
	url string
	c   *http.Client
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: strings.TrimRight(url, "/"),
		c:   c,
	}
}

func decode[T any](body []byte, what string) (*T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("unable to unmarshal %s - %w", what, err)
	}
	return &v, nil
}

// StakingParams retrieves the global staking parameters and the current ledger time.
func (c *Client) StakingParams() (*staking.Params, error) {
	body, err := c.httpGET(c.url + "/staking/params")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve staking params - %w", err)
	}
	return decode[staking.Params](body, "staking params")
}

// StakingAccount retrieves the staking record of addr.
func (c *Client) StakingAccount(addr thor.Address) (*staking.Account, error) {
	body, err := c.httpGET(c.url + "/staking/accounts/" + addr.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve staking account - %w", err)
	}
	return decode[staking.Account](body, "staking account")
}

func (c *Client) operate(method string, caller thor.Address, amount *math.HexOrDecimal256) (*utils.Receipt, error) {
	body, err := c.httpPOST(c.url+"/staking/"+method, &staking.Operation{Caller: caller, Amount: amount})
	if err != nil {
		return nil, fmt.Errorf("unable to %s - %w", method, err)
	}
	return decode[utils.Receipt](body, "receipt")
}

// Stake locks amount of the caller's tokens. The staking contract must be approved to spend them.
func (c *Client) Stake(caller thor.Address, amount *math.HexOrDecimal256) (*utils.Receipt, error) {
	return c.operate("stake", caller, amount)
}

// Unstake returns amount of principal to the caller.
func (c *Client) Unstake(caller thor.Address, amount *math.HexOrDecimal256) (*utils.Receipt, error) {
	return c.operate("unstake", caller, amount)
}

// Claim mints the caller's available reward.
func (c *Client) Claim(caller thor.Address) (*utils.Receipt, error) {
	return c.operate("claim", caller, nil)
}

// Restake compounds the caller's available reward into principal.
func (c *Client) Restake(caller thor.Address) (*utils.Receipt, error) {
	return c.operate("restake", caller, nil)
}

// Token retrieves the staking token metadata.
func (c *Client) Token() (*tokens.Token, error) {
	body, err := c.httpGET(c.url + "/tokens")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token - %w", err)
	}
	return decode[tokens.Token](body, "token")
}

// Balance retrieves the token balance of addr.
func (c *Client) Balance(addr thor.Address) (*tokens.Balance, error) {
	body, err := c.httpGET(c.url + "/tokens/" + addr.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve balance - %w", err)
	}
	return decode[tokens.Balance](body, "balance")
}

// Allowance retrieves what spender may still move on behalf of owner.
func (c *Client) Allowance(owner, spender thor.Address) (*tokens.Allowance, error) {
	body, err := c.httpGET(c.url + "/tokens/" + owner.String() + "/allowances/" + spender.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve allowance - %w", err)
	}
	return decode[tokens.Allowance](body, "allowance")
}

func (c *Client) Transfer(transfer *tokens.Transfer) (*utils.Receipt, error) {
	body, err := c.httpPOST(c.url+"/tokens/transfer", transfer)
	if err != nil {
		return nil, fmt.Errorf("unable to transfer - %w", err)
	}
	return decode[utils.Receipt](body, "receipt")
}

func (c *Client) Approve(approve *tokens.Approve) (*utils.Receipt, error) {
	body, err := c.httpPOST(c.url+"/tokens/approve", approve)
	if err != nil {
		return nil, fmt.Errorf("unable to approve - %w", err)
	}
	return decode[utils.Receipt](body, "receipt")
}

// Call simulates a call without committing anything.
func (c *Client) Call(callData *calls.CallData) (*calls.CallResult, error) {
	body, err := c.httpPOST(c.url+"/calls", callData)
	if err != nil {
		return nil, fmt.Errorf("unable to simulate call - %w", err)
	}
	return decode[calls.CallResult](body, "call result")
}

// Receipt retrieves the receipt of an executed call.
func (c *Client) Receipt(callID thor.Bytes32) (*utils.Receipt, error) {
	body, err := c.httpGET(c.url + "/calls/" + callID.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve receipt - %w", err)
	}
	return decode[utils.Receipt](body, "receipt")
}

// FilterEvents retrieves the events matching filter.
func (c *Client) FilterEvents(filter *events.EventFilter) ([]*events.FilteredEvent, error) {
	body, err := c.httpPOST(c.url+"/events", filter)
	if err != nil {
		return nil, fmt.Errorf("unable to filter events - %w", err)
	}
	var evs []*events.FilteredEvent
	if err := json.Unmarshal(body, &evs); err != nil {
		return nil, fmt.Errorf("unable to unmarshal events - %w", err)
	}
	return evs, nil
}
