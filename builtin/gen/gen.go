// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gen

import (
	"embed"
)

//go:generate rm -rf ./compiled/
//go:generate docker run -v ./:/solidity ethereum/solc:0.8.20 --overwrite --abi -o /solidity/compiled staking.sol token.sol

//go:embed compiled
var fs embed.FS

// MustABI returns the embedded abi json of the named contract, e.g. "compiled/Staking.abi".
func MustABI(name string) []byte {
	data, err := fs.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return data
}
