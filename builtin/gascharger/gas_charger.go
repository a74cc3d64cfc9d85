// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gascharger

import (
	"fmt"
	"strings"

	"github.com/vechain/stakeledger/metrics"
	"github.com/vechain/stakeledger/thor"
	"github.com/vechain/stakeledger/xenv"
)

var metricNativeGas = metrics.LazyLoadCounterVec("native_gas_charged", []string{"op"})

type op int

const (
	opSstoreSet op = iota
	opSstoreReset
	opCall
	opSload
	opOther
	opCount
)

var (
	opNames = [opCount]string{"sstore_set", "sstore_reset", "call", "sload", "other"}
	// checked in order, the first cost dividing the charge names it
	opCosts = [opOther]uint64{thor.SstoreSetGas, thor.SstoreResetGas, thor.CallGas, thor.SloadGas}
)

func classify(gas uint64) op {
	if gas > 0 {
		for i, cost := range opCosts {
			if gas%cost == 0 {
				return op(i)
			}
		}
	}
	return opOther
}

// Charger charges gas on behalf of a native method, keeping the total per storage operation.
// A nil env only records.
type Charger struct {
	env *xenv.Environment
	gas [opCount]uint64
}

func New(env *xenv.Environment) *Charger {
	return &Charger{env: env}
}

func (c *Charger) Charge(gas uint64) {
	kind := classify(gas)
	c.gas[kind] += gas
	metricNativeGas().AddWithLabel(int64(gas), map[string]string{"op": opNames[kind]})

	if c.env != nil {
		c.env.UseGas(gas)
	}
}

func (c *Charger) Total() (total uint64) {
	for _, g := range c.gas {
		total += g
	}
	return
}

// String lists the non zero totals, e.g. "sstore_set=20000 sload=400".
func (c *Charger) String() string {
	var parts []string
	for i, g := range c.gas {
		if g > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", opNames[i], g))
		}
	}
	return strings.Join(parts, " ")
}
