package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"

	"github.com/kroma-network/statetrie/core/types"
	"github.com/kroma-network/statetrie/params"
)

var testAddress = common.HexToAddress("0x0a5fdd31f1a2c5e3c4e0a7a0b8c5d2f1e9b3a6c7")

func TestAccountKey(t *testing.T) {
	m := NewKeyMapper()
	key := m.AccountKey(testAddress)

	assert.Len(t, key, 1+params.SecureKeySize+common.AddressLength)
	assert.Equal(t, params.DomainPrefix[:], key[:1])
	assert.Equal(t, crypto.Keccak256(testAddress.Bytes())[:params.SecureKeySize], key[1:11])
	assert.Equal(t, testAddress.Bytes(), key[11:])

	// Cached keys must not leak through caller modifications.
	key[0] = 0xff
	assert.Equal(t, params.DomainPrefix[0], m.AccountKey(testAddress)[0])
}

func TestDerivedKeys(t *testing.T) {
	m := NewKeyMapper()
	account := m.AccountKey(testAddress)

	prefix := m.AccountStoragePrefixKey(testAddress)
	assert.Equal(t, append(common.CopyBytes(account), 0x00), prefix)
	assert.Equal(t, append(common.CopyBytes(account), 0x80), m.CodeKey(testAddress))

	slot := types.DataWordFromUint64(1)
	key := m.AccountStorageKey(testAddress, slot)
	assert.Equal(t, prefix, key[:len(prefix)])
	assert.Equal(t, SecureKeyPrefix(slot[:]), key[len(prefix):len(prefix)+params.SecureKeySize])
	assert.Equal(t, []byte{0x01}, key[len(prefix)+params.SecureKeySize:])

	zero := m.AccountStorageKey(testAddress, types.ZeroDataWord)
	assert.Equal(t, []byte{0x00}, zero[len(prefix)+params.SecureKeySize:])
}

func TestStorageKeyOffset(t *testing.T) {
	assert.Equal(t, 87, params.StorageKeyOffset)
}
