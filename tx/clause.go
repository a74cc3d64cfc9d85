// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/stakeledger/thor"
)

// Clause is the basic execution unit: an abi encoded call to a builtin contract.
type Clause struct {
	To   thor.Address
	Data []byte
}

// NewClause create a new clause instance.
func NewClause(to thor.Address) *Clause {
	return &Clause{To: to}
}

// WithData create a new clause with data field set.
func (c *Clause) WithData(data []byte) *Clause {
	return &Clause{c.To, append([]byte(nil), data...)}
}

func (c *Clause) String() string {
	return fmt.Sprintf(`
		(To:	%v
		 Data:	%v)`, c.To, hexutil.Encode(c.Data))
}
