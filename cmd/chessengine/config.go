package main

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/hailam/chessengine/internal/engine"
)

// fileConfig mirrors the subset of EngineOptions a chessengine.toml may
// seed at startup, per §11.3.
type fileConfig struct {
	HashMB        int    `toml:"hash_mb"`
	Ponder        bool   `toml:"ponder"`
	StoragePath   string `toml:"storage_path"`
	BookPath      string `toml:"book_path"`
	SnapshotDepth int    `toml:"snapshot_depth"`
}

// loadConfig reads path into EngineOptions, starting from
// engine.DefaultOptions(). A missing file is the common case, not an error:
// defaults are returned unchanged. A malformed file is logged by the
// caller and also falls back to defaults, since a GUI driving the engine
// over UCI has no channel to observe a fatal exit before "uciok".
func loadConfig(path string) (engine.EngineOptions, error) {
	opts := engine.DefaultOptions()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return opts, nil
	}
	if err != nil {
		return opts, err
	}

	var fc fileConfig
	fc.HashMB = opts.HashMB
	fc.Ponder = opts.Ponder
	fc.SnapshotDepth = opts.SnapshotDepth

	if _, err := toml.Decode(string(data), &fc); err != nil {
		return opts, err
	}

	opts.HashMB = engine.ClampHashMB(fc.HashMB)
	opts.Ponder = fc.Ponder
	opts.StoragePath = fc.StoragePath
	opts.BookPath = fc.BookPath
	opts.SnapshotDepth = fc.SnapshotDepth
	return opts, nil
}
