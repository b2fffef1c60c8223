package engine

// EngineOptions collects the UCI-settable and config-file-seedable engine
// parameters (§6's "setoption", §11.3's TOML-seeded defaults).
type EngineOptions struct {
	HashMB        int    // transposition table size in MB
	Ponder        bool   // ponder flag
	StoragePath   string // internal/storage badger path; "" means in-memory
	BookPath      string // internal/book Polyglot file; "" means no book
	SnapshotDepth int    // minimum depth snapshotted to storage on quit/ucinewgame
}

// DefaultOptions mirrors §6's declared option defaults: "Hash spin default
// 256 min 1 max 4096", "Ponder check default true".
func DefaultOptions() EngineOptions {
	return EngineOptions{
		HashMB:        256,
		Ponder:        true,
		SnapshotDepth: 8,
	}
}

const (
	MinHashMB = 1
	MaxHashMB = 4096
)

// ClampHashMB keeps a requested hash size inside the declared UCI range.
func ClampHashMB(mb int) int {
	if mb < MinHashMB {
		return MinHashMB
	}
	if mb > MaxHashMB {
		return MaxHashMB
	}
	return mb
}
