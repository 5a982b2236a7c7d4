package state

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/lru"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/kroma-network/statetrie/core/types"
	"github.com/kroma-network/statetrie/params"
)

const accountKeyCacheSize = 5000

// KeyMapper derives the trie keys of accounts, their storage and their code.
// Returned keys are fresh slices the caller may modify.
type KeyMapper struct {
	accountKeys *lru.Cache[common.Address, []byte]
}

func NewKeyMapper() *KeyMapper {
	return &KeyMapper{accountKeys: lru.NewCache[common.Address, []byte](accountKeyCacheSize)}
}

// SecureKeyPrefix returns the first SecureKeySize bytes of keccak(key).
func SecureKeyPrefix(key []byte) []byte {
	return crypto.Keccak256(key)[:params.SecureKeySize]
}

// AccountKey is DomainPrefix || SecureKeyPrefix(addr) || addr.
func (m *KeyMapper) AccountKey(addr common.Address) []byte {
	if key, ok := m.accountKeys.Get(addr); ok {
		return common.CopyBytes(key)
	}
	key := make([]byte, 0, len(params.DomainPrefix)+params.SecureKeySize+common.AddressLength)
	key = append(key, params.DomainPrefix[:]...)
	key = append(key, SecureKeyPrefix(addr.Bytes())...)
	key = append(key, addr.Bytes()...)
	m.accountKeys.Add(addr, key)
	return common.CopyBytes(key)
}

// AccountStoragePrefixKey is the key of the storage root of addr.
func (m *KeyMapper) AccountStoragePrefixKey(addr common.Address) []byte {
	return append(m.AccountKey(addr), params.StoragePrefix[:]...)
}

// AccountStorageKey is the key of a single storage slot of addr.
func (m *KeyMapper) AccountStorageKey(addr common.Address, slot types.DataWord) []byte {
	key := m.AccountStoragePrefixKey(addr)
	key = append(key, SecureKeyPrefix(slot[:])...)
	return append(key, slot.ByteArrayForStorage()...)
}

func (m *KeyMapper) CodeKey(addr common.Address) []byte {
	return append(m.AccountKey(addr), params.CodePrefix[:]...)
}
