package trie

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"

	"github.com/kroma-network/statetrie/trie/bintrie"
)

var (
	nodePrefix  = []byte("bn") // nodePrefix + hash -> encoded node
	valuePrefix = []byte("bv") // valuePrefix + value hash -> long value
	headKey     = []byte("statetrie-head")

	ErrNotFound = errors.New("not found")
)

// Config defines the cache and hashing behavior of a Database.
type Config struct {
	CleanCacheSize int            // Maximum memory allowance (in bytes) for caching clean nodes
	Hasher         bintrie.Hasher // Node hasher, keccak when nil
}

// Defaults is the default setting for Database.
var Defaults = &Config{
	CleanCacheSize: 16 * 1024 * 1024,
}

// Database persists binary trie nodes in a key-value store, keyed by their
// content hash, and serves them back to tries resolving children lazily.
type Database struct {
	diskdb ethdb.KeyValueStore
	cleans *fastcache.Cache // GC friendly memory cache of clean node blobs
	hasher bintrie.Hasher

	lock sync.RWMutex
	head common.Hash
}

func NewDatabase(diskdb ethdb.KeyValueStore, config *Config) *Database {
	if config == nil {
		config = Defaults
	}
	var cleans *fastcache.Cache
	if config.CleanCacheSize > 0 {
		cleans = fastcache.New(config.CleanCacheSize)
	}
	hasher := config.Hasher
	if hasher == nil {
		hasher = bintrie.NewHasher()
	}
	db := &Database{diskdb: diskdb, cleans: cleans, hasher: hasher}
	if b, _ := diskdb.Get(headKey); len(b) == common.HashLength {
		db.head = common.BytesToHash(b)
	}
	return db
}

func (db *Database) DiskDB() ethdb.KeyValueStore { return db.diskdb }
func (db *Database) Hasher() bintrie.Hasher      { return db.hasher }

// NewEmptyTrie returns an empty trie resolving its nodes from db.
func (db *Database) NewEmptyTrie() *bintrie.Trie { return bintrie.New(db, db.hasher) }

// EmptyRootHash is the root hash of an empty trie under the database hasher.
func (db *Database) EmptyRootHash() common.Hash { return bintrie.EmptyRootHash(db.hasher) }

// Save persists every node reachable from t that is not stored yet, together
// with its long values, in a single batch.
func (db *Database) Save(t *bintrie.Trie) error {
	start := time.Now()
	batch := db.diskdb.NewBatch()

	var (
		dirties []*bintrie.Trie
		values  int
	)
	err := t.Commit(func(n *bintrie.Trie) error {
		if n.ValueLength() > bintrie.MaxValueLength {
			return fmt.Errorf("%w: value exceeds %d bytes", bintrie.ErrInvalidNode, bintrie.MaxValueLength)
		}
		blob, err := n.Encode()
		if err != nil {
			return err
		}
		if err := batch.Put(nodeKey(n.Hash()), blob); err != nil {
			return err
		}
		if n.HasLongValue() {
			saved, err := db.putValue(batch, n)
			if err != nil {
				return err
			}
			if saved {
				values++
			}
		}
		dirties = append(dirties, n)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to collect trie nodes: %w", err)
	}
	size := batch.ValueSize()
	if err := batch.Write(); err != nil {
		return fmt.Errorf("failed to write trie nodes: %w", err)
	}
	for _, n := range dirties {
		n.MarkSaved()
	}
	saveTimeTimer.Update(time.Since(start))
	saveNodesMeter.Mark(int64(len(dirties)))
	saveValuesMeter.Mark(int64(values))
	saveBytesMeter.Mark(int64(size))

	log.Debug("Persisted trie to database",
		"root", t.Hash(),
		"nodes", len(dirties),
		"values", values,
		"size", common.StorageSize(size),
		"time", time.Since(start),
	)
	return nil
}

// putValue stages the long value of n unless the store already has it.
func (db *Database) putValue(batch ethdb.Batch, n *bintrie.Trie) (bool, error) {
	key := valueKey(n.ValueHash())
	if ok, err := db.diskdb.Has(key); err != nil {
		return false, err
	} else if ok {
		return false, nil
	}
	value := n.Value()
	if value == nil {
		return false, fmt.Errorf("%w: long value %x", bintrie.ErrMissingNode, n.ValueHash())
	}
	return true, batch.Put(key, value)
}

// Retrieve loads the trie whose root hash is root.
func (db *Database) Retrieve(root common.Hash) (*bintrie.Trie, error) {
	if root == db.EmptyRootHash() {
		return db.NewEmptyTrie(), nil
	}
	blob, err := db.Node(root)
	if err != nil {
		return nil, err
	}
	return bintrie.DecodeNode(root, blob, db, db.hasher)
}

// Has reports whether the node with the given hash is stored.
func (db *Database) Has(hash common.Hash) (bool, error) {
	if db.cleans != nil && db.cleans.Has(nodeKey(hash)) {
		return true, nil
	}
	ok, err := db.diskdb.Has(nodeKey(hash))
	if err != nil {
		log.Error("failed to Has", "hash", hash, "error", err)
		return false, err
	}
	return ok, nil
}

// Node retrieves an encoded node by hash.
func (db *Database) Node(hash common.Hash) ([]byte, error) {
	blob, err := db.get(nodeKey(hash))
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: %x", bintrie.ErrMissingNode, hash)
	}
	return blob, err
}

// Value retrieves a long value by its hash.
func (db *Database) Value(hash common.Hash) ([]byte, error) {
	value, err := db.get(valueKey(hash))
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: value %x", bintrie.ErrMissingNode, hash)
	}
	return value, err
}

func (db *Database) get(key []byte) ([]byte, error) {
	if db.cleans != nil {
		if enc := db.cleans.Get(nil, key); enc != nil {
			cleanHitMeter.Mark(1)
			cleanReadMeter.Mark(int64(len(enc)))
			return enc, nil
		}
	}
	if ok, err := db.diskdb.Has(key); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrNotFound
	}
	v, err := db.diskdb.Get(key)
	if err != nil {
		return nil, err
	}
	if db.cleans != nil {
		db.cleans.Set(key, v)
		cleanMissMeter.Mark(1)
		cleanWriteMeter.Mark(int64(len(v)))
	}
	return v, nil
}

// SetHead records root as the latest saved state root.
func (db *Database) SetHead(root common.Hash) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if err := db.diskdb.Put(headKey, root.Bytes()); err != nil {
		return err
	}
	db.head = root
	return nil
}

// Head returns the latest root recorded with SetHead, or the empty root.
func (db *Database) Head() common.Hash {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.head == (common.Hash{}) {
		return db.EmptyRootHash()
	}
	return db.head
}

func (db *Database) Close() error { return db.diskdb.Close() }

func nodeKey(hash common.Hash) []byte  { return append(common.CopyBytes(nodePrefix), hash.Bytes()...) }
func valueKey(hash common.Hash) []byte { return append(common.CopyBytes(valuePrefix), hash.Bytes()...) }
