// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
)

// decodeFixedHex decodes s, with or without 0x prefix, into exactly len(out) bytes.
func decodeFixedHex(s string, out []byte) error {
	switch len(s) {
	case len(out) * 2:
	case len(out)*2 + 2:
		if !strings.EqualFold(s[:2], "0x") {
			return errors.New("invalid prefix")
		}
		s = s[2:]
	default:
		return errors.New("invalid length")
	}
	_, err := hex.Decode(out, []byte(s))
	return err
}

func marshalHexJSON(b []byte) ([]byte, error) {
	return json.Marshal("0x" + hex.EncodeToString(b))
}

func unmarshalHexJSON(data []byte, out []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return decodeFixedHex(s, out)
}
