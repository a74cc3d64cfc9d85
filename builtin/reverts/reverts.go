// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts carries the recoverable failures of native methods.
package reverts

import (
	"errors"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	errorSelector = crypto.Keccak256([]byte("Error(string)"))[:4]
	errorArgs     = ethabi.Arguments{{Type: mustType("string")}}
)

func mustType(t string) ethabi.Type {
	typ, err := ethabi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// ErrRequire is a failed precondition of a native method. The call reverts and its
// state changes are dropped, but the ledger carries on.
type ErrRequire struct {
	message string
}

func NewRequireError(message string) *ErrRequire {
	return &ErrRequire{message}
}

func (e *ErrRequire) Error() string {
	return e.message
}

// Bytes returns the message as Error(string) revert data.
func (e *ErrRequire) Bytes() []byte {
	if e == nil {
		return nil
	}
	packed, err := errorArgs.Pack(e.message)
	if err != nil {
		return nil
	}
	return append(append([]byte{}, errorSelector...), packed...)
}

func asRequire(err error) (*ErrRequire, bool) {
	var re *ErrRequire
	return re, errors.As(err, &re) && re != nil
}

// IsRevertErr reports whether v, usually a recovered panic value, is an error wrapping an ErrRequire.
func IsRevertErr(v any) bool {
	err, ok := v.(error)
	if !ok {
		return false
	}
	_, ok = asRequire(err)
	return ok
}

// Reason returns the message of the ErrRequire wrapped by err, empty if none.
func Reason(err error) string {
	if re, ok := asRequire(err); ok {
		return re.message
	}
	return ""
}
