// Package book probes Polyglot-format opening books: a flat array of
// 16-byte entries (position key, move, weight, learn), sorted ascending by
// key, keyed by the Polyglot Zobrist scheme described at
// http://hgm.nubati.net/book_format.html. Probing binary-searches the file
// directly through an io.ReaderAt rather than loading it into memory,
// since a book can run to tens of megabytes.
package book

import (
	"encoding/binary"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/hailam/chessengine/internal/board"
)

const recordSize = 16

// Entry is one book move with its recorded weight.
type Entry struct {
	Move   board.Move
	Weight uint16
}

// Book probes a Polyglot book backed by an io.ReaderAt. A nil Book (or one
// wrapping zero records) always misses.
type Book struct {
	r       io.ReaderAt
	closer  io.Closer
	records int64
}

// Empty returns a Book with no entries; Probe on it always misses.
func Empty() *Book {
	return &Book{}
}

// Load opens a Polyglot .bin file, keeping it open for random-access reads
// across repeated Probe calls. The caller should arrange for Close to run
// at shutdown.
func Load(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Book{
		r:       f,
		closer:  f,
		records: info.Size() / recordSize,
	}, nil
}

// NewReaderAt wraps an already-open io.ReaderAt (e.g. a bytes.Reader in
// tests) spanning exactly size bytes of Polyglot-formatted records.
func NewReaderAt(r io.ReaderAt, size int64) *Book {
	return &Book{r: r, records: size / recordSize}
}

// Close releases the underlying file, if Load opened one.
func (b *Book) Close() error {
	if b == nil || b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

func (b *Book) readRecord(i int64) (key uint64, moveBits, weight uint16, err error) {
	var raw [recordSize]byte
	if _, err = b.r.ReadAt(raw[:], i*recordSize); err != nil {
		return 0, 0, 0, err
	}
	key = binary.BigEndian.Uint64(raw[0:8])
	moveBits = binary.BigEndian.Uint16(raw[8:10])
	weight = binary.BigEndian.Uint16(raw[10:12])
	return key, moveBits, weight, nil
}

// lowerBound returns the index of the first record whose key is >= target,
// via binary search over the key-sorted file (Polyglot books are always
// produced in ascending-key order).
func (b *Book) lowerBound(target uint64) int64 {
	lo, hi := int64(0), b.records
	for lo < hi {
		mid := lo + (hi-lo)/2
		key, _, _, err := b.readRecord(mid)
		if err != nil || key >= target {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// entriesFor collects every consecutive record matching key, scanning
// forward from the binary-search anchor (the first record whose key is not
// below key).
func (b *Book) entriesFor(key uint64) []Entry {
	if b.r == nil || b.records == 0 {
		return nil
	}
	idx := b.lowerBound(key)
	var out []Entry
	for i := idx; i < b.records; i++ {
		k, moveBits, weight, err := b.readRecord(i)
		if err != nil || k != key {
			break
		}
		from, to, promo := decodeMove(moveBits)
		out = append(out, Entry{Move: encodeCandidate(from, to, promo), Weight: weight})
	}
	return out
}

// encodeCandidate stashes a from/to/promotion triple as an untyped Move;
// Probe re-derives the true flagged Move (castling/en-passant/promotion)
// by matching it against the position's legal moves.
func encodeCandidate(from, to board.Square, promo board.PieceKind) board.Move {
	if promo != board.NoPieceKind {
		return board.NewPromotionMove(from, to, promo)
	}
	return board.NewNormalMove(from, to)
}

// decodeMove converts Polyglot's 16-bit move encoding (to-file bits 0-2,
// to-rank 3-5, from-file 6-8, from-rank 9-11, promotion 12-14) into squares in this engine's own
// row convention (row 0 = Black's back rank), and undoes Polyglot's
// king-captures-rook castling encoding into a plain king destination
// square; the caller resolves the actual CastleType by matching against
// the position's legal moves.
func decodeMove(data uint16) (from, to board.Square, promo board.PieceKind) {
	toFile := int(data & 7)
	toRank := int((data >> 3) & 7)
	fromFile := int((data >> 6) & 7)
	fromRank := int((data >> 9) & 7)
	promoCode := (data >> 12) & 7

	from = board.NewSquare(fromFile, 7-fromRank)
	to = board.NewSquare(toFile, 7-toRank)

	// Polyglot encodes castling as the king capturing its own rook.
	switch {
	case fromFile == 4 && fromRank == 0 && toFile == 7 && toRank == 0:
		to = board.NewSquare(6, 7) // white O-O: e1h1 -> g1
	case fromFile == 4 && fromRank == 0 && toFile == 0 && toRank == 0:
		to = board.NewSquare(2, 7) // white O-O-O: e1a1 -> c1
	case fromFile == 4 && fromRank == 7 && toFile == 7 && toRank == 7:
		to = board.NewSquare(6, 0) // black O-O: e8h8 -> g8
	case fromFile == 4 && fromRank == 7 && toFile == 0 && toRank == 7:
		to = board.NewSquare(2, 0) // black O-O-O: e8a8 -> c8
	}

	promo = board.NoPieceKind
	switch promoCode {
	case 1:
		promo = board.Knight
	case 2:
		promo = board.Bishop
	case 3:
		promo = board.Rook
	case 4:
		promo = board.Queen
	}
	return from, to, promo
}

// resolve matches a decoded candidate against pos's legal moves to recover
// the real Move value (with its correct Kind/CastleType/EnPassant flag).
func resolve(pos *board.Position, candidate board.Move) (board.Move, bool) {
	from, to := candidate.From(), candidate.To()
	wantPromo := board.NoPieceKind
	if candidate.Kind() == board.Promotion {
		wantPromo = candidate.Promotion()
	}

	legal := pos.GenerateLegalMoves()
	for i := 0; i < legal.Len(); i++ {
		m := legal.At(i)
		if m.From() != from || m.To() != to {
			continue
		}
		if m.Kind() == board.Promotion {
			if m.Promotion() == wantPromo {
				return m, true
			}
			continue
		}
		if wantPromo == board.NoPieceKind {
			return m, true
		}
	}
	return board.NullMove, false
}

// Probe returns a weighted-random legal move recorded for pos, or
// (NullMove, false) on a miss or if every recorded move turns out illegal
// (a corrupt or foreign book).
func (b *Book) Probe(pos *board.Position) (board.Move, bool) {
	if b == nil {
		return board.NullMove, false
	}
	entries := b.entriesFor(PolyglotHash(pos))
	if len(entries) == 0 {
		return board.NullMove, false
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Weight > entries[j].Weight })

	total := uint32(0)
	for _, e := range entries {
		total += uint32(e.Weight)
	}

	tryFrom := func(start int) (board.Move, bool) {
		for i := start; i < len(entries); i++ {
			if m, ok := resolve(pos, entries[i].Move); ok {
				return m, true
			}
		}
		for i := 0; i < start; i++ {
			if m, ok := resolve(pos, entries[i].Move); ok {
				return m, true
			}
		}
		return board.NullMove, false
	}

	if total == 0 {
		return tryFrom(0)
	}

	roll := rand.Uint32() % total
	cum := uint32(0)
	for i, e := range entries {
		cum += uint32(e.Weight)
		if roll < cum {
			return tryFrom(i)
		}
	}
	return tryFrom(0)
}
