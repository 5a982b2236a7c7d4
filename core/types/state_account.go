// Copyright 2021 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package types

import (
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iden3/go-iden3-crypto/utils"
)

// AccountState is the value stored under an account key. Storage and code
// live under keys derived from the account key, so they are not part of it.
type AccountState struct {
	Nonce   uint64
	Balance *big.Int
}

// NewEmptyAccountState constructs an account with zero nonce and balance.
func NewEmptyAccountState() *AccountState {
	return &AccountState{Balance: new(big.Int)}
}

// Copy returns a deep-copied account state.
func (acct *AccountState) Copy() *AccountState {
	balance := new(big.Int)
	if acct.Balance != nil {
		balance.Set(acct.Balance)
	}
	return &AccountState{Nonce: acct.Nonce, Balance: balance}
}

// Encode serializes the account. The zk form is two 32 byte field elements
// and requires the balance to fit the scalar field.
func (acct *AccountState) Encode(isZk bool) ([]byte, error) {
	balance := acct.Balance
	if balance == nil {
		balance = new(big.Int)
	}
	if isZk {
		if !utils.CheckBigIntInField(balance) {
			return nil, errors.New("balance overflow")
		}
		result := make([]byte, 64)
		binary.BigEndian.PutUint64(result[24:32], acct.Nonce)
		balance.FillBytes(result[32:64])
		return result, nil
	}
	return rlp.EncodeToBytes(&AccountState{Nonce: acct.Nonce, Balance: balance})
}

// DecodeAccountState parses either encoding produced by Encode.
func DecodeAccountState(data []byte, isZk bool) (*AccountState, error) {
	if isZk {
		if len(data) != 64 {
			return nil, errors.New("invalid zk account state length")
		}
		return &AccountState{
			Nonce:   binary.BigEndian.Uint64(data[24:32]),
			Balance: new(big.Int).SetBytes(data[32:64]),
		}, nil
	}
	var acct AccountState
	if err := rlp.DecodeBytes(data, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}
