package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hailam/chessengine/internal/book"
	"github.com/hailam/chessengine/internal/engine"
	"github.com/hailam/chessengine/internal/storage"
	"github.com/hailam/chessengine/internal/uci"
)

var configPath = flag.String("config", "chessengine.toml", "path to a TOML config file seeding engine options")

func main() {
	flag.Parse()

	opts, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "info string failed to parse %s: %v (using defaults)\n", *configPath, err)
	}

	store := storage.OpenOrMemory(opts.StoragePath)
	if saved, err := store.LoadOptions(); err == nil {
		opts.HashMB = engine.ClampHashMB(saved.HashMB)
	}

	eng := engine.NewEngine(opts)

	if snap, err := store.LoadSnapshot(); err == nil && len(snap) > 0 {
		eng.TranspositionTable().Load(snap)
	}

	protocol := uci.New(os.Stdout, eng)
	protocol.SetStorage(store)

	if opts.BookPath != "" {
		if b, err := book.Load(opts.BookPath); err == nil {
			protocol.SetBook(b)
		} else {
			fmt.Fprintf(os.Stderr, "info string failed to load book %s: %v\n", opts.BookPath, err)
		}
	}

	protocol.Run(os.Stdin)
}
