package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chessengine/internal/engine"
)

func openMemory(t *testing.T) *Storage {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadOptionsDefaultsWhenUnset(t *testing.T) {
	s := openMemory(t)
	opts, err := s.LoadOptions()
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultOptions(), opts)
}

func TestSaveAndLoadOptionsRoundTrip(t *testing.T) {
	s := openMemory(t)
	want := engine.EngineOptions{HashMB: 128, Ponder: false, StoragePath: "x", BookPath: "y", SnapshotDepth: 3}

	require.NoError(t, s.SaveOptions(want))
	got, err := s.LoadOptions()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadSnapshotEmptyWhenUnset(t *testing.T) {
	s := openMemory(t)
	entries, err := s.LoadSnapshot()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveAndLoadSnapshotRoundTrip(t *testing.T) {
	s := openMemory(t)
	want := []engine.SnapshotEntry{
		{Hash: 1, Entry: engine.TTEntry{Key: 1, Depth: 4}},
		{Hash: 2, Entry: engine.TTEntry{Key: 2, Depth: 9}},
	}

	require.NoError(t, s.SaveSnapshot(want))
	got, err := s.LoadSnapshot()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOpenOrMemoryNeverFails(t *testing.T) {
	s := OpenOrMemory("")
	require.NotNil(t, s)
	defer s.Close()

	_, err := s.LoadOptions()
	assert.NoError(t, err)
}
