// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"bytes"
	"errors"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
)

// MethodID is the 4 byte selector prefixed to call data.
type MethodID [4]byte

// EmptyMethodID is the ID of a constructor, which has no selector.
var EmptyMethodID = MethodID{}

func (id MethodID) IsEmpty() bool {
	return id == EmptyMethodID
}

// Method packs and unpacks the call data of one contract method.
type Method struct {
	id       MethodID
	name     string
	constant bool
	inputs   ethabi.Arguments
	outputs  ethabi.Arguments
}

func newMethod(id MethodID, m *ethabi.Method) *Method {
	return &Method{
		id:       id,
		name:     m.Name,
		constant: m.IsConstant(),
		inputs:   m.Inputs,
		outputs:  m.Outputs,
	}
}

func (m *Method) ID() MethodID { return m.id }

func (m *Method) Name() string { return m.name }

// Const reports whether the method is view or pure, so it may run in a read only call.
func (m *Method) Const() bool { return m.constant }

// EncodeInput packs args behind the selector. Constructor input carries no selector.
func (m *Method) EncodeInput(args ...any) ([]byte, error) {
	packed, err := m.inputs.Pack(args...)
	if err != nil {
		return nil, err
	}
	if m.id.IsEmpty() {
		return packed, nil
	}
	return append(m.id[:], packed...), nil
}

// DecodeInput unpacks call data into v after checking the selector.
func (m *Method) DecodeInput(input []byte, v any) error {
	if !m.id.IsEmpty() {
		if !bytes.HasPrefix(input, m.id[:]) {
			return errors.New("input has incorrect prefix")
		}
		input = input[len(m.id):]
	} else if len(input) == 0 {
		return nil
	}
	vals, err := m.inputs.Unpack(input)
	if err != nil {
		return err
	}
	return m.inputs.Copy(v, vals)
}

func (m *Method) EncodeOutput(args ...any) ([]byte, error) {
	return m.outputs.Pack(args...)
}

// DecodeOutput unpacks return data, which must be a whole number of words.
func (m *Method) DecodeOutput(output []byte, v any) error {
	if len(output)%32 != 0 {
		return errors.New("output has incorrect length")
	}
	vals, err := m.outputs.Unpack(output)
	if err != nil {
		return err
	}
	return m.outputs.Copy(v, vals)
}

// ExtractMethodID returns the selector at the head of input.
func ExtractMethodID(input []byte) (MethodID, error) {
	var id MethodID
	if len(input) < len(id) {
		return id, errors.New("input data too short")
	}
	copy(id[:], input)
	return id, nil
}
