package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"

	"github.com/kroma-network/statetrie/trie"
	"github.com/kroma-network/statetrie/trie/bintrie"
)

const (
	hasherKeccak   = "keccak"
	hasherPoseidon = "poseidon"
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://pkg.go.dev/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

type trietoolConfig struct {
	DataDir    string
	Engine     string
	Cache      int // megabytes of backend cache
	Handles    int
	CleanCache int // megabytes of trie node cache
	Hasher     string
}

var defaultConfig = trietoolConfig{
	Engine:     trie.EngineLevelDB,
	Cache:      64,
	Handles:    64,
	CleanCache: trie.Defaults.CleanCacheSize / 1024 / 1024,
	Hasher:     hasherKeccak,
}

func loadConfig(file string, cfg *trietoolConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig loads the config file, if any, and applies flags on top of it.
func makeConfig(ctx *cli.Context) (trietoolConfig, error) {
	cfg := defaultConfig
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}
	if ctx.IsSet(dataDirFlag.Name) {
		cfg.DataDir = ctx.String(dataDirFlag.Name)
	}
	if ctx.IsSet(dbEngineFlag.Name) {
		cfg.Engine = ctx.String(dbEngineFlag.Name)
	}
	if ctx.IsSet(cacheFlag.Name) {
		cfg.Cache = ctx.Int(cacheFlag.Name)
	}
	if ctx.IsSet(hasherFlag.Name) {
		cfg.Hasher = ctx.String(hasherFlag.Name)
	}
	return cfg, nil
}

func (cfg *trietoolConfig) hasher() (bintrie.Hasher, error) {
	switch cfg.Hasher {
	case "", hasherKeccak:
		return bintrie.NewKeccakHasher(), nil
	case hasherPoseidon:
		return bintrie.NewPoseidonHasher(), nil
	default:
		return nil, fmt.Errorf("unknown hasher %q", cfg.Hasher)
	}
}

// openStore opens the trie database described by the command line.
func openStore(ctx *cli.Context, readOnly bool) (*trie.Database, error) {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return nil, err
	}
	hasher, err := cfg.hasher()
	if err != nil {
		return nil, err
	}
	return trie.Open(trie.OpenOptions{
		Engine:    cfg.Engine,
		Directory: cfg.DataDir,
		Namespace: "statetrie/db/",
		Cache:     cfg.Cache,
		Handles:   cfg.Handles,
		ReadOnly:  readOnly,
	}, &trie.Config{
		CleanCacheSize: cfg.CleanCache * 1024 * 1024,
		Hasher:         hasher,
	})
}
