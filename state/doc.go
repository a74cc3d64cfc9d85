// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages contract storage of the ledger.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ playback(staging) ] -> [ kv bulk ]
//	         |
//	 [ committed cache ]
//	         |
//	    [ kv store ]
//
// Storage slots are flat keys (address ++ slot) in the kv store; values are rlp raw bytes.
package state
