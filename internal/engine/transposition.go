package engine

import "github.com/hailam/chessengine/internal/board"

// EntryFlag records which kind of bound a transposition-table entry stores.
type EntryFlag uint8

const (
	Exact      EntryFlag = iota // score is the true minimax value
	LowerBound                  // score >= true value (beta cutoff)
	UpperBound                  // score <= true value (no move raised alpha)
)

// TTEntry is one slot of a bucket.
type TTEntry struct {
	Key      uint64
	BestMove board.Move
	Score    Score
	Depth    int8
	Flag     EntryFlag
}

func (e *TTEntry) occupied() bool { return e.Depth > 0 || e.Key != 0 }

// bucket holds four entries sharing one index. An entry takes 24 bytes, so a
// bucket spans 96 bytes; buckets are not padded or aligned to cache lines.
type bucket struct {
	entries [4]TTEntry
}

// Table is the fixed-size, depth-preferred-replacement transposition table.
// The replacement policy intentionally has no age/generation bits — per the
// open design question, that is left as a deliberate v1 limitation rather
// than implemented here.
type Table struct {
	buckets []bucket
	mask    uint64

	probes uint64
	hits   uint64
}

const ttEntrySize = 24 // bytes; approximate, used only to size the table

// NewTable builds a table sized to sizeMB megabytes, rounded down to a
// power-of-two bucket count so indexing is a mask instead of a modulo.
func NewTable(sizeMB int) *Table {
	if sizeMB < 1 {
		sizeMB = 1
	}
	numEntries := uint64(sizeMB) * 1024 * 1024 / ttEntrySize
	numBuckets := roundDownPow2(numEntries / 4)
	if numBuckets == 0 {
		numBuckets = 1
	}
	return &Table{
		buckets: make([]bucket, numBuckets),
		mask:    numBuckets - 1,
	}
}

func roundDownPow2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

func (t *Table) index(hash uint64) uint64 { return hash & t.mask }

// Probe returns the entry matching hash within its bucket, if any.
func (t *Table) Probe(hash uint64) (TTEntry, bool) {
	t.probes++
	b := &t.buckets[t.index(hash)]
	for i := range b.entries {
		if b.entries[i].occupied() && b.entries[i].Key == hash {
			t.hits++
			return b.entries[i], true
		}
	}
	return TTEntry{}, false
}

// Store inserts an entry into hash's bucket: an existing entry with the
// same key is overwritten in place; otherwise the shallowest entry in the
// bucket is replaced, per §4.3's insert rule.
func (t *Table) Store(hash uint64, depth int, score Score, flag EntryFlag, best board.Move) {
	b := &t.buckets[t.index(hash)]

	for i := range b.entries {
		if b.entries[i].occupied() && b.entries[i].Key == hash {
			b.entries[i] = TTEntry{Key: hash, BestMove: best, Score: score, Depth: int8(depth), Flag: flag}
			return
		}
	}

	victim := 0
	for i := 1; i < len(b.entries); i++ {
		if !b.entries[i].occupied() {
			victim = i
			break
		}
		if b.entries[i].Depth < b.entries[victim].Depth {
			victim = i
		}
	}
	b.entries[victim] = TTEntry{Key: hash, BestMove: best, Score: score, Depth: int8(depth), Flag: flag}
}

// Clear zeroes every bucket, as required whenever "ucinewgame" starts a
// fresh game tree unrelated to the previous one.
func (t *Table) Clear() {
	for i := range t.buckets {
		t.buckets[i] = bucket{}
	}
	t.hits = 0
	t.probes = 0
}

// HashFull reports, in permille, how full the table's first sample looks —
// used only for the UCI "info hashfull" field.
func (t *Table) HashFull() int {
	sample := 1000
	if len(t.buckets) < sample {
		sample = len(t.buckets)
	}
	if sample == 0 {
		return 0
	}
	used := 0
	for i := 0; i < sample; i++ {
		for j := range t.buckets[i].entries {
			if t.buckets[i].entries[j].occupied() {
				used++
			}
		}
	}
	return (used * 1000) / (sample * 4)
}

// HitRate returns the probe hit rate as a percentage, for diagnostics.
func (t *Table) HitRate() float64 {
	if t.probes == 0 {
		return 0
	}
	return float64(t.hits) / float64(t.probes) * 100
}

// NumBuckets reports the table's bucket count.
func (t *Table) NumBuckets() uint64 { return uint64(len(t.buckets)) }

// AdjustScoreFromTT converts a stored mate score back into one relative to
// the current ply: mate scores are stored relative to the node they were
// found at, and must be rebased when reused from a different ply higher up
// the tree.
func AdjustScoreFromTT(score Score, ply int) Score {
	if score > Winning {
		return score - Score(ply)
	}
	if score < Loosing {
		return score + Score(ply)
	}
	return score
}

// AdjustScoreToTT is AdjustScoreFromTT's inverse, applied before storing.
func AdjustScoreToTT(score Score, ply int) Score {
	if score > Winning {
		return score + Score(ply)
	}
	if score < Loosing {
		return score - Score(ply)
	}
	return score
}

// SnapshotEntry pairs a full Zobrist key with its table entry, the unit
// internal/storage persists across process restarts.
type SnapshotEntry struct {
	Hash  uint64
	Entry TTEntry
}

// Snapshot returns every Exact entry at or above minDepth, for
// internal/storage to persist as a warm-start seed.
func (t *Table) Snapshot(minDepth int) []SnapshotEntry {
	var out []SnapshotEntry
	for i := range t.buckets {
		for j := range t.buckets[i].entries {
			e := t.buckets[i].entries[j]
			if e.occupied() && e.Flag == Exact && int(e.Depth) >= minDepth {
				out = append(out, SnapshotEntry{Hash: e.Key, Entry: e})
			}
		}
	}
	return out
}

// Load seeds the table from a previously captured snapshot, used to
// warm-start a fresh process from the last session's persisted entries.
func (t *Table) Load(entries []SnapshotEntry) {
	for _, se := range entries {
		t.Store(se.Hash, int(se.Entry.Depth), se.Entry.Score, se.Entry.Flag, se.Entry.BestMove)
	}
}
