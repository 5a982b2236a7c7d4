package trie

import (
	"fmt"

	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
)

const (
	EngineMemory  = "memory"
	EngineLevelDB = "leveldb"
	EnginePebble  = "pebble"
)

// OpenOptions selects and tunes the key-value backend of a Database.
type OpenOptions struct {
	Engine    string // memory, leveldb or pebble
	Directory string
	Namespace string // metrics namespace of the backend
	Cache     int    // megabytes
	Handles   int
	ReadOnly  bool
}

// OpenDiskDB opens the backend described by o.
func OpenDiskDB(o OpenOptions) (ethdb.Database, error) {
	switch o.Engine {
	case EngineMemory:
		return rawdb.NewMemoryDatabase(), nil
	case EngineLevelDB, EnginePebble:
		if o.Directory == "" {
			return nil, fmt.Errorf("%s database requires a directory", o.Engine)
		}
	default:
		return nil, fmt.Errorf("unknown database engine %q", o.Engine)
	}
	log.Info("Opening trie database", "engine", o.Engine, "dir", o.Directory, "cache", o.Cache, "readonly", o.ReadOnly)
	return rawdb.Open(rawdb.OpenOptions{
		Type:      o.Engine,
		Directory: o.Directory,
		Namespace: o.Namespace,
		Cache:     o.Cache,
		Handles:   o.Handles,
		ReadOnly:  o.ReadOnly,
	})
}

// Open opens the backend described by o and wraps it in a Database.
func Open(o OpenOptions, config *Config) (*Database, error) {
	diskdb, err := OpenDiskDB(o)
	if err != nil {
		return nil, err
	}
	return NewDatabase(diskdb, config), nil
}
