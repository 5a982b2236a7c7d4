package state

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/kroma-network/statetrie/params"
	"github.com/kroma-network/statetrie/trie"
	"github.com/kroma-network/statetrie/trie/bintrie"
)

// MutableTrie is a mutable handle over an immutable binary trie. Every
// mutation swaps the held root for the one returned by the trie.
type MutableTrie interface {
	Get(key []byte) []byte
	Put(key, value []byte)
	PutKey(key bintrie.Key, value []byte)
	PutString(key string, value []byte)
	DeleteRecursive(key []byte)
	GetValueLength(key []byte) uint32
	GetValueHash(key []byte) common.Hash
	CollectKeys(size int) mapset.Set[bintrie.Key]
	GetStorageKeys(addr common.Address) *StorageKeysIterator
	Hash() common.Hash
	Trie() *bintrie.Trie
	Save() error
	Commit()
	Rollback()
}

type MutableTrieImpl struct {
	store  *trie.Database
	trie   *bintrie.Trie
	keys   *KeyMapper
	logger log.Logger
}

// NewMutableTrie wraps t. A nil t starts from an empty trie bound to store,
// and a nil store turns Save into a no-op.
func NewMutableTrie(store *trie.Database, t *bintrie.Trie) *MutableTrieImpl {
	if t == nil {
		if store != nil {
			t = store.NewEmptyTrie()
		} else {
			t = bintrie.NewEmpty()
		}
	}
	return &MutableTrieImpl{
		store:  store,
		trie:   t,
		keys:   NewKeyMapper(),
		logger: log.New("trie", "MutableTrie"),
	}
}

func (m *MutableTrieImpl) Trie() *bintrie.Trie { return m.trie }
func (m *MutableTrieImpl) Hash() common.Hash   { return m.trie.Hash() }

func (m *MutableTrieImpl) Get(key []byte) []byte { return m.trie.Get(key) }

func (m *MutableTrieImpl) Put(key, value []byte) { m.trie = m.trie.Put(key, value) }

func (m *MutableTrieImpl) PutKey(key bintrie.Key, value []byte) { m.trie = m.trie.PutKey(key, value) }

func (m *MutableTrieImpl) PutString(key string, value []byte) { m.trie = m.trie.PutString(key, value) }

func (m *MutableTrieImpl) DeleteRecursive(key []byte) { m.trie = m.trie.DeleteRecursive(key) }

// GetValueLength returns 0 when key holds no value.
func (m *MutableTrieImpl) GetValueLength(key []byte) uint32 {
	if node := m.trie.Find(key); node != nil {
		return node.ValueLength()
	}
	return 0
}

// GetValueHash returns the zero hash when key holds no value.
func (m *MutableTrieImpl) GetValueHash(key []byte) common.Hash {
	if node := m.trie.Find(key); node != nil {
		return node.ValueHash()
	}
	return common.Hash{}
}

func (m *MutableTrieImpl) CollectKeys(size int) mapset.Set[bintrie.Key] {
	return m.trie.CollectKeys(size)
}

// GetStorageKeys enumerates the storage slots of addr. Accounts without a
// storage root yield an exhausted iterator.
func (m *MutableTrieImpl) GetStorageKeys(addr common.Address) *StorageKeysIterator {
	storageRoot := m.trie.Find(m.keys.AccountStoragePrefixKey(addr))
	if storageRoot == nil {
		return newStorageKeysIterator(nil, params.StorageKeyOffset)
	}
	it := storageRoot.PreOrderIterator()
	// The storage root only carries the contract marker.
	if _, err := it.Next(); err != nil {
		return newStorageKeysIterator(nil, params.StorageKeyOffset)
	}
	return newStorageKeysIterator(it, params.StorageKeyOffset)
}

// Save persists the held trie and records its root as the store head.
func (m *MutableTrieImpl) Save() error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Save(m.trie); err != nil {
		m.logger.Error("failed to Save", "root", m.trie.Hash(), "error", err)
		return err
	}
	if err := m.store.SetHead(m.trie.Hash()); err != nil {
		m.logger.Error("failed to SetHead", "root", m.trie.Hash(), "error", err)
		return err
	}
	return nil
}

// Commit and Rollback are no-ops: there is no staging layer above the
// trie, so every mutation is already visible through the held root.
func (m *MutableTrieImpl) Commit()   {}
func (m *MutableTrieImpl) Rollback() {}
