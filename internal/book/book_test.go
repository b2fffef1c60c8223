package book

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chessengine/internal/board"
)

func record(key uint64, moveBits, weight uint16) []byte {
	buf := make([]byte, recordSize)
	binary.BigEndian.PutUint64(buf[0:8], key)
	binary.BigEndian.PutUint16(buf[8:10], moveBits)
	binary.BigEndian.PutUint16(buf[10:12], weight)
	return buf
}

func TestPolyglotHashIsDeterministic(t *testing.T) {
	a := board.NewPosition()
	b := board.NewPosition()
	assert.Equal(t, PolyglotHash(a), PolyglotHash(b))
}

func TestPolyglotHashChangesAfterAMove(t *testing.T) {
	pos := board.NewPosition()
	before := PolyglotHash(pos)
	legal := pos.GenerateLegalMoves()
	require.Positive(t, legal.Len())
	pos.MakeMove(legal.At(0))
	after := PolyglotHash(pos)
	assert.NotEqual(t, before, after)
}

func TestEmptyBookAlwaysMisses(t *testing.T) {
	b := Empty()
	pos := board.NewPosition()
	_, ok := b.Probe(pos)
	assert.False(t, ok)
}

func TestProbeResolvesKnownEntry(t *testing.T) {
	pos := board.NewPosition()
	key := PolyglotHash(pos)

	// e2e4 encoded per Polyglot's bit layout: to (file|rank<<3), from
	// (file<<6|rank<<9), no promotion.
	const moveBits = uint16(4 | 3<<3 | 4<<6 | 1<<9)

	var buf bytes.Buffer
	buf.Write(record(key, moveBits, 10))
	data := buf.Bytes()

	b := NewReaderAt(bytes.NewReader(data), int64(len(data)))
	m, ok := b.Probe(pos)
	require.True(t, ok)

	assert.Equal(t, board.NewSquare(4, 6), m.From())
	assert.Equal(t, board.NewSquare(4, 4), m.To())
}

func TestProbeSkipsIllegalEntryAndTriesAnother(t *testing.T) {
	pos := board.NewPosition()
	key := PolyglotHash(pos)

	// A nonsense from/to pair that resolves to no legal move at all.
	const bogus = uint16(0 | 0<<3 | 0<<6 | 0<<9)
	const e2e4 = uint16(4 | 3<<3 | 4<<6 | 1<<9)

	var buf bytes.Buffer
	buf.Write(record(key, bogus, 1))
	buf.Write(record(key, e2e4, 50))
	data := buf.Bytes()

	b := NewReaderAt(bytes.NewReader(data), int64(len(data)))
	_, ok := b.Probe(pos)
	assert.True(t, ok)
}

func TestProbeMissesUnknownKey(t *testing.T) {
	pos := board.NewPosition()
	other := PolyglotHash(pos) + 1

	var buf bytes.Buffer
	buf.Write(record(other, 0, 5))
	data := buf.Bytes()

	b := NewReaderAt(bytes.NewReader(data), int64(len(data)))
	_, ok := b.Probe(pos)
	assert.False(t, ok)
}

func TestLowerBoundBinarySearchFindsMiddleKey(t *testing.T) {
	keys := []uint64{10, 20, 30, 40, 50}
	var buf bytes.Buffer
	for _, k := range keys {
		buf.Write(record(k, 0, 1))
	}
	data := buf.Bytes()

	b := NewReaderAt(bytes.NewReader(data), int64(len(data)))
	idx := b.lowerBound(30)
	assert.Equal(t, int64(2), idx)

	idxMissing := b.lowerBound(25)
	assert.Equal(t, int64(2), idxMissing)

	idxPastEnd := b.lowerBound(1000)
	assert.Equal(t, int64(len(keys)), idxPastEnd)
}
