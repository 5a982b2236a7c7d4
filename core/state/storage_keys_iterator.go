package state

import (
	"errors"

	"github.com/ethereum/go-ethereum/log"

	"github.com/kroma-network/statetrie/core/types"
	"github.com/kroma-network/statetrie/trie/bintrie"
)

var ErrNoMoreStorageKeys = errors.New("no more storage keys")

// StorageKeysIterator lazily walks the storage subtree of one account and
// yields the slot identifier of every node holding a value.
//
// Element keys are relative to the account node, so the slot bits start at a
// fixed offset once the rest of the storage prefix and the secure prefix of
// the slot are skipped.
type StorageKeysIterator struct {
	it      *bintrie.PreOrderIterator // nil when the account has no storage
	offset  int
	current *types.DataWord
}

func newStorageKeysIterator(it *bintrie.PreOrderIterator, offset int) *StorageKeysIterator {
	return &StorageKeysIterator{it: it, offset: offset}
}

// HasNext advances to the next valued node, if any. Calling it repeatedly
// without Next does not skip keys.
func (s *StorageKeysIterator) HasNext() bool {
	if s.current != nil {
		return true
	}
	if s.it == nil {
		return false
	}
	for s.it.HasNext() {
		elem, err := s.it.Next()
		if err != nil {
			return false
		}
		if !elem.Node.HasValue() {
			continue
		}
		key := elem.NodeKey
		if key.Len() <= s.offset {
			log.Warn("Storage node above slot depth", "path", key)
			continue
		}
		word, err := types.DataWordFromBytes(key.Slice(s.offset, key.Len()).Encode())
		if err != nil {
			log.Warn("Storage node below slot depth", "path", key, "err", err)
			continue
		}
		s.current = &word
		return true
	}
	return false
}

// Next returns the next slot identifier, or ErrNoMoreStorageKeys.
func (s *StorageKeysIterator) Next() (types.DataWord, error) {
	if !s.HasNext() {
		return types.ZeroDataWord, ErrNoMoreStorageKeys
	}
	word := *s.current
	s.current = nil
	return word, nil
}

// Collect drains the iterator.
func (s *StorageKeysIterator) Collect() ([]types.DataWord, error) {
	var words []types.DataWord
	for s.HasNext() {
		word, err := s.Next()
		if err != nil {
			return words, err
		}
		words = append(words, word)
	}
	return words, nil
}
