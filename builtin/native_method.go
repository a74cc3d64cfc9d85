// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/stakeledger/abi"
	"github.com/vechain/stakeledger/thor"
	"github.com/vechain/stakeledger/xenv"
)

type nativeMethod struct {
	abi *abi.Method
	run func(env *xenv.Environment) []any
}

type methodKey struct {
	thor.Address
	abi.MethodID
}

var nativeMethods = make(map[methodKey]*nativeMethod)

func registerNativeMethods(c *contract, defines []struct {
	name string
	run  func(env *xenv.Environment) []any
},
) {
	for _, def := range defines {
		var method *abi.Method
		if def.name == "" {
			method = c.ABI.Constructor()
		} else {
			method, _ = c.ABI.MethodByName(def.name)
		}
		if method == nil {
			panic("method not found: " + c.name + "." + def.name)
		}
		nativeMethods[methodKey{c.Address, method.ID()}] = &nativeMethod{
			abi: method,
			run: def.run,
		}
	}
}

// FindNativeCall find native calls.
func FindNativeCall(to thor.Address, input []byte) (*abi.Method, func(env *xenv.Environment) []any, bool) {
	methodID, err := abi.ExtractMethodID(input)
	if err != nil {
		return nil, nil, false
	}

	method := nativeMethods[methodKey{to, methodID}]
	if method == nil {
		return nil, nil, false
	}
	return method.abi, method.run, true
}

// IsNative returns whether addr hosts a builtin contract.
func IsNative(addr thor.Address) bool {
	return addr == Staking.Address || addr == Token.Address
}
