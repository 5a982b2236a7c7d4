package types

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountStateEncoding(t *testing.T) {
	for _, isZk := range []bool{false, true} {
		acct := &AccountState{Nonce: 7, Balance: big.NewInt(1000)}
		enc, err := acct.Encode(isZk)
		require.NoError(t, err)
		dec, err := DecodeAccountState(enc, isZk)
		require.NoError(t, err)
		assert.Equal(t, acct.Nonce, dec.Nonce)
		assert.Zero(t, acct.Balance.Cmp(dec.Balance))

		enc, err = (&AccountState{Nonce: 1}).Encode(isZk)
		require.NoError(t, err)
		dec, err = DecodeAccountState(enc, isZk)
		require.NoError(t, err)
		assert.Zero(t, dec.Balance.Sign())

		_, err = DecodeAccountState([]byte{0x01}, isZk)
		assert.Error(t, err)
	}
}

func TestAccountStateZkBalanceOverflow(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 255)
	_, err := (&AccountState{Balance: huge}).Encode(true)
	assert.Error(t, err)

	_, err = (&AccountState{Balance: huge}).Encode(false)
	assert.NoError(t, err)
}

func TestAccountStateCopy(t *testing.T) {
	acct := &AccountState{Nonce: 3, Balance: big.NewInt(5)}
	cpy := acct.Copy()
	cpy.Balance.SetInt64(6)
	assert.Equal(t, int64(5), acct.Balance.Int64())
	assert.NotNil(t, (&AccountState{}).Copy().Balance)
}
