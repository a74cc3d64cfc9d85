// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/thor"
)

// genesisFile is the YAML layout of a custom genesis.
//
//	deployer: "0x..."
//	token:
//	  name: Stake Token
//	  symbol: STK
//	  decimals: 18
//	rewardMultiplier: "1"
//	allocations:
//	  - address: "0x..."
//	    amount: "1000000000000000000000000"
type genesisFile struct {
	Deployer string `yaml:"deployer"`
	Token    struct {
		Name     string `yaml:"name"`
		Symbol   string `yaml:"symbol"`
		Decimals uint8  `yaml:"decimals"`
	} `yaml:"token"`
	RewardMultiplier string `yaml:"rewardMultiplier"`
	Allocations      []struct {
		Address string `yaml:"address"`
		Amount  string `yaml:"amount"`
	} `yaml:"allocations"`
}

func parseUint256(s string) (*uint256.Int, error) {
	b, ok := math.ParseBig256(s)
	if !ok || b.Sign() < 0 {
		return nil, errors.Errorf("invalid number %q", s)
	}
	return uint256.MustFromBig(b), nil
}

func parseGenesis(r io.Reader) (*ledger.Genesis, error) {
	var file genesisFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}

	deployer, err := thor.ParseAddress(file.Deployer)
	if err != nil {
		return nil, errors.Wrap(err, "deployer")
	}
	if file.Token.Name == "" || file.Token.Symbol == "" {
		return nil, errors.New("token: name and symbol required")
	}
	multiplier, err := parseUint256(file.RewardMultiplier)
	if err != nil {
		return nil, errors.Wrap(err, "rewardMultiplier")
	}

	g := &ledger.Genesis{
		Deployer:         deployer,
		TokenName:        file.Token.Name,
		TokenSymbol:      file.Token.Symbol,
		TokenDecimals:    file.Token.Decimals,
		RewardMultiplier: multiplier,
	}
	for i, alloc := range file.Allocations {
		addr, err := thor.ParseAddress(alloc.Address)
		if err != nil {
			return nil, errors.Wrapf(err, "allocations[%d].address", i)
		}
		amount, err := parseUint256(alloc.Amount)
		if err != nil {
			return nil, errors.Wrapf(err, "allocations[%d].amount", i)
		}
		g.Allocations = append(g.Allocations, ledger.Allocation{Address: addr, Amount: amount})
	}
	return g, nil
}

func loadGenesis(path string) (*ledger.Genesis, error) {
	if path == "" {
		return ledger.DevGenesis(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open genesis file")
	}
	defer f.Close()
	return parseGenesis(f)
}
