// Package storage persists engine options and a transposition-table
// warm-start snapshot across process restarts, backed by BadgerDB.
package storage

import (
	"encoding/json"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chessengine/internal/engine"
)

const (
	keyOptions  = "options"
	keySnapshot = "tt_snapshot"
)

// Storage wraps a BadgerDB instance. A path of "" opens badger's in-memory
// mode: useful for tests and for a caller that declined to configure a
// persistence directory.
type Storage struct {
	db *badger.DB
}

// Open opens (creating if absent) the badger store at path, or an
// in-memory store if path is "".
func Open(path string) (*Storage, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(path)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close closes the underlying database.
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveOptions persists the engine's current option snapshot.
func (s *Storage) SaveOptions(opts engine.EngineOptions) error {
	data, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyOptions), data)
	})
}

// LoadOptions loads previously saved options, or DefaultOptions() if none
// were ever saved.
func (s *Storage) LoadOptions() (engine.EngineOptions, error) {
	opts := engine.DefaultOptions()
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyOptions))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &opts)
		})
	})
	return opts, err
}

// SaveSnapshot persists a transposition-table snapshot (only entries at or
// above EngineOptions.SnapshotDepth, per the engine's own filtering).
func (s *Storage) SaveSnapshot(entries []engine.SnapshotEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keySnapshot), data)
	})
}

// LoadSnapshot loads a previously saved transposition-table snapshot, or
// nil if none exists.
func (s *Storage) LoadSnapshot() ([]engine.SnapshotEntry, error) {
	var entries []engine.SnapshotEntry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keySnapshot))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entries)
		})
	})
	return entries, err
}

// OpenOrMemory opens path, falling back to an in-memory store (never
// failing the caller) if the on-disk open errors out — persistence is a
// warm-start convenience, not a correctness requirement.
func OpenOrMemory(path string) *Storage {
	s, err := Open(path)
	if err == nil {
		return s
	}
	mem, _ := Open("")
	return mem
}
