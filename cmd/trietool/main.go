// trietool inspects binary state tries persisted by statetrie.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kroma-network/statetrie/params"
)

var (
	// Git information set by linker when building with ci.go.
	gitCommit string
	gitDate   string
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	dataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "Data directory of the trie database",
	}
	dbEngineFlag = &cli.StringFlag{
		Name:  "db.engine",
		Usage: "Backing database implementation to use ('leveldb' or 'pebble')",
		Value: defaultConfig.Engine,
	}
	cacheFlag = &cli.IntFlag{
		Name:  "cache",
		Usage: "Megabytes of memory allocated to the database backend",
		Value: defaultConfig.Cache,
	}
	hasherFlag = &cli.StringFlag{
		Name:  "hasher",
		Usage: "Node hash function of the trie ('keccak' or 'poseidon')",
		Value: defaultConfig.Hasher,
	}
	logFileFlag = &cli.StringFlag{
		Name:  "log.file",
		Usage: "Write logs to a rotated file instead of stderr",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: 3,
	}
)

func newApp() *cli.App {
	app := &cli.App{
		Name:    "trietool",
		Usage:   "inspect binary state tries",
		Version: params.VersionWithCommit(gitCommit, gitDate),
		Flags: []cli.Flag{
			configFileFlag,
			dataDirFlag,
			dbEngineFlag,
			cacheFlag,
			hasherFlag,
			logFileFlag,
			verbosityFlag,
		},
		Commands: []*cli.Command{
			rootCommand,
			storageKeysCommand,
			collectKeysCommand,
			getCommand,
			inspectCommand,
			dumpConfigCommand,
		},
		Before: func(ctx *cli.Context) error {
			output := ctx.App.ErrWriter
			if file := ctx.String(logFileFlag.Name); file != "" {
				output = &lumberjack.Logger{
					Filename:   file,
					MaxSize:    100, // megabytes
					MaxBackups: 10,
					MaxAge:     30, // days
				}
			}
			setupLogging(output, ctx.Int(verbosityFlag.Name))
			return nil
		},
	}
	return app
}

func setupLogging(output io.Writer, verbosity int) {
	usecolor := false
	if output == io.Writer(os.Stderr) {
		usecolor = (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		if usecolor {
			output = colorable.NewColorableStderr()
		}
	}
	glogger := log.NewGlogHandler(log.NewTerminalHandler(output, usecolor))
	glogger.Verbosity(log.FromLegacyLevel(verbosity))
	log.SetDefault(log.NewLogger(glogger))
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
