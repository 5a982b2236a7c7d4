package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/slices"

	"github.com/kroma-network/statetrie/core/state"
	"github.com/kroma-network/statetrie/trie"
	"github.com/kroma-network/statetrie/trie/bintrie"
)

var (
	rootFlag = &cli.StringFlag{
		Name:  "root",
		Usage: "State root to inspect (defaults to the latest saved root)",
	}
	addressFlag = &cli.StringFlag{
		Name:     "address",
		Usage:    "Account address",
		Required: true,
	}
	sizeFlag = &cli.IntFlag{
		Name:  "size",
		Usage: "Only collect keys of this many bytes (-1 collects every key)",
		Value: bintrie.AllKeys,
	}
	keyFlag = &cli.StringFlag{
		Name:     "key",
		Usage:    "Hex encoded trie key",
		Required: true,
	}
)

var (
	rootCommand = &cli.Command{
		Name:   "root",
		Usage:  "Print the latest saved state root",
		Action: printRoot,
	}
	storageKeysCommand = &cli.Command{
		Name:   "storage-keys",
		Usage:  "List the storage slots of an account",
		Flags:  []cli.Flag{rootFlag, addressFlag},
		Action: listStorageKeys,
	}
	collectKeysCommand = &cli.Command{
		Name:   "collect-keys",
		Usage:  "List trie keys holding a value",
		Flags:  []cli.Flag{rootFlag, sizeFlag},
		Action: collectKeys,
	}
	getCommand = &cli.Command{
		Name:   "get",
		Usage:  "Print the value stored under a raw trie key",
		Flags:  []cli.Flag{rootFlag, keyFlag},
		Action: getValue,
	}
	inspectCommand = &cli.Command{
		Name:   "inspect",
		Usage:  "Print node statistics of a state trie",
		Flags:  []cli.Flag{rootFlag},
		Action: inspectTrie,
	}
	dumpConfigCommand = &cli.Command{
		Name:   "dumpconfig",
		Usage:  "Show configuration values",
		Action: dumpConfig,
	}
)

var errInvalidAddress = errors.New("invalid address")

func printRoot(ctx *cli.Context) error {
	store, err := openStore(ctx, true)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Fprintln(ctx.App.Writer, store.Head().Hex())
	return nil
}

func listStorageKeys(ctx *cli.Context) error {
	addr := ctx.String(addressFlag.Name)
	if !common.IsHexAddress(addr) {
		return fmt.Errorf("%w: %s", errInvalidAddress, addr)
	}
	return withRepository(ctx, func(repo *state.Repository) error {
		words, err := repo.GetStorageKeys(common.HexToAddress(addr)).Collect()
		if err != nil {
			return err
		}
		for _, w := range words {
			fmt.Fprintln(ctx.App.Writer, w.Hex())
		}
		return nil
	})
}

func collectKeys(ctx *cli.Context) error {
	return withRepository(ctx, func(repo *state.Repository) error {
		keys := repo.MutableTrie().CollectKeys(ctx.Int(sizeFlag.Name)).ToSlice()
		slices.SortFunc(keys, func(a, b bintrie.Key) int { return strings.Compare(string(a), string(b)) })
		for _, key := range keys {
			fmt.Fprintln(ctx.App.Writer, hexutil.Encode(key.Bytes()))
		}
		return nil
	})
}

func getValue(ctx *cli.Context) error {
	key, err := hexutil.Decode(ctx.String(keyFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}
	return withRepository(ctx, func(repo *state.Repository) error {
		value := repo.MutableTrie().Get(key)
		if value == nil {
			return fmt.Errorf("key %x: %w", key, trie.ErrNotFound)
		}
		fmt.Fprintln(ctx.App.Writer, hexutil.Encode(value))
		return nil
	})
}

type trieStats struct {
	nodes      int
	values     int
	longValues int
	valueSize  common.StorageSize
	maxDepth   int // in bits
}

func inspectTrie(ctx *cli.Context) error {
	return withRepository(ctx, func(repo *state.Repository) error {
		var stats trieStats
		for it := repo.MutableTrie().Trie().PreOrderIterator(); it.HasNext(); {
			elem, err := it.Next()
			if err != nil {
				return err
			}
			stats.nodes++
			stats.maxDepth = max(stats.maxDepth, elem.NodeKey.Len())
			if node := elem.Node; node.HasValue() {
				stats.values++
				stats.valueSize += common.StorageSize(node.ValueLength())
				if node.HasLongValue() {
					stats.longValues++
				}
			}
		}
		table := tablewriter.NewWriter(ctx.App.Writer)
		table.SetHeader([]string{"Metric", "Value"})
		table.AppendBulk([][]string{
			{"Root", repo.Root().Hex()},
			{"Nodes", fmt.Sprint(stats.nodes)},
			{"Values", fmt.Sprint(stats.values)},
			{"Long values", fmt.Sprint(stats.longValues)},
			{"Value size", stats.valueSize.String()},
			{"Max depth (bits)", fmt.Sprint(stats.maxDepth)},
		})
		table.Render()
		return nil
	})
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}
	_, err = ctx.App.Writer.Write(out)
	return err
}

// withRepository opens the store read-only and calls fn with the repository
// at --root, or at the latest saved root.
func withRepository(ctx *cli.Context, fn func(repo *state.Repository) error) error {
	store, err := openStore(ctx, true)
	if err != nil {
		return err
	}
	defer store.Close()

	root := store.Head()
	if ctx.IsSet(rootFlag.Name) {
		b, err := hexutil.Decode(ctx.String(rootFlag.Name))
		if err != nil || len(b) != common.HashLength {
			return fmt.Errorf("invalid root %q", ctx.String(rootFlag.Name))
		}
		root = common.BytesToHash(b)
	}
	repo, err := state.NewLocator(store).SnapshotAt(root)
	if err != nil {
		return err
	}
	return fn(repo)
}
