// Package uci implements the UCI protocol front end described in §6: a
// line-oriented stdin/stdout loop that drives internal/engine.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chessengine/internal/board"
	"github.com/hailam/chessengine/internal/book"
	"github.com/hailam/chessengine/internal/engine"
	"github.com/hailam/chessengine/internal/storage"
)

const (
	engineName   = "chessengine"
	engineAuthor = "chessengine contributors"
)

// UCI holds the protocol handler's mutable state: the accepted position
// and the engine it drives.
type UCI struct {
	out io.Writer
	eng *engine.Engine
	pos *board.Position

	book    *book.Book
	store   *storage.Storage
	options engine.EngineOptions

	searching bool
}

// New builds a UCI handler writing replies to out and driving eng, starting
// from the initial position.
func New(out io.Writer, eng *engine.Engine) *UCI {
	return &UCI{
		out:     out,
		eng:     eng,
		pos:     board.NewPosition(),
		book:    book.Empty(),
		options: eng.Options(),
	}
}

// SetBook installs an opening book probed before every search.
func (u *UCI) SetBook(b *book.Book) { u.book = b }

// SetStorage installs the badger-backed persistence layer used for
// warm-starting the transposition table and remembering options across
// restarts.
func (u *UCI) SetStorage(s *storage.Storage) { u.store = s }

func (u *UCI) printf(format string, args ...any) {
	fmt.Fprintf(u.out, format, args...)
}

// Run reads commands from r until "quit" or EOF, per §6's command subset.
func (u *UCI) Run(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.printf("readyok\n")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "ponderhit":
			u.eng.PonderHit()
		case "setoption":
			u.handleSetOption(args)
		case "quit":
			u.handleQuit()
			return
		}
	}
}

func (u *UCI) handleUCI() {
	u.printf("id name %s\n", engineName)
	u.printf("id author %s\n", engineAuthor)
	u.printf("option name Hash type spin default %d min %d max %d\n",
		engine.DefaultOptions().HashMB, engine.MinHashMB, engine.MaxHashMB)
	u.printf("option name Ponder type check default true\n")
	u.printf("uciok\n")
}

func (u *UCI) handleNewGame() {
	if u.store != nil {
		snap := u.eng.TranspositionTable().Snapshot(u.eng.Options().SnapshotDepth)
		_ = u.store.SaveSnapshot(snap)
	}
	u.eng.NewGame()
	u.pos = board.NewPosition()
}

// handlePosition parses "position (startpos|fen <fen>) [moves ...]". An
// invalid move aborts parsing without mutating the previously accepted
// position, per §6.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var pos *board.Position
	rest := args

	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
		rest = args[1:]
	case "fen":
		end := len(args)
		for i := 1; i < len(args); i++ {
			if args[i] == "moves" {
				end = i
				break
			}
		}
		if end < 1 {
			return
		}
		fenStr := strings.Join(args[1:end], " ")
		parsed, err := board.ParseFEN(fenStr)
		if err != nil {
			return
		}
		pos = parsed
		rest = args[end:]
	default:
		return
	}

	if len(rest) > 0 && rest[0] == "moves" {
		for _, moveText := range rest[1:] {
			legal := pos.GenerateLegalMoves()
			m, err := board.ParseUCIMove(moveText, legal.Slice())
			if err != nil {
				return
			}
			pos.MakeMove(m)
		}
	}

	u.pos = pos
}

// goOptions is the raw parse of a "go" command's tokens.
type goOptions struct {
	searchMoves []string
	ponder      bool
	infinite    bool
	wtime       time.Duration
	btime       time.Duration
	winc        time.Duration
	binc        time.Duration
	movesToGo   int
	depth       int
	nodes       uint64
	mate        int
	moveTime    time.Duration
	perft       int
	isPerft     bool
}

func parseGoOptions(args []string) goOptions {
	var o goOptions
	for i := 0; i < len(args); i++ {
		next := func() string {
			if i+1 < len(args) {
				i++
				return args[i]
			}
			return ""
		}
		switch args[i] {
		case "searchmoves":
			for i+1 < len(args) {
				peek := args[i+1]
				if isGoKeyword(peek) {
					break
				}
				o.searchMoves = append(o.searchMoves, peek)
				i++
			}
		case "ponder":
			o.ponder = true
		case "infinite":
			o.infinite = true
		case "wtime":
			ms, _ := strconv.Atoi(next())
			o.wtime = time.Duration(ms) * time.Millisecond
		case "btime":
			ms, _ := strconv.Atoi(next())
			o.btime = time.Duration(ms) * time.Millisecond
		case "winc":
			ms, _ := strconv.Atoi(next())
			o.winc = time.Duration(ms) * time.Millisecond
		case "binc":
			ms, _ := strconv.Atoi(next())
			o.binc = time.Duration(ms) * time.Millisecond
		case "movestogo":
			o.movesToGo, _ = strconv.Atoi(next())
		case "depth":
			o.depth, _ = strconv.Atoi(next())
		case "nodes":
			n, _ := strconv.ParseUint(next(), 10, 64)
			o.nodes = n
		case "mate":
			o.mate, _ = strconv.Atoi(next())
		case "movetime":
			ms, _ := strconv.Atoi(next())
			o.moveTime = time.Duration(ms) * time.Millisecond
		case "perft":
			o.isPerft = true
			o.perft, _ = strconv.Atoi(next())
		}
	}
	return o
}

func isGoKeyword(tok string) bool {
	switch tok {
	case "ponder", "infinite", "wtime", "btime", "winc", "binc",
		"movestogo", "depth", "nodes", "mate", "movetime", "perft", "searchmoves":
		return true
	}
	return false
}

func (u *UCI) handleGo(args []string) {
	opts := parseGoOptions(args)

	if opts.isPerft {
		start := time.Now()
		nodes := u.eng.Perft(u.pos, opts.perft)
		elapsed := time.Since(start)
		u.printf("info string perft depth %d nodes %d time %d nps %d\n",
			opts.perft, nodes, elapsed.Milliseconds(), engine.NodesPerSecond(nodes, elapsed))
		return
	}

	if !opts.ponder && !opts.infinite {
		if m, ok := u.book.Probe(u.pos); ok {
			u.printf("bestmove %s\n", m.String())
			return
		}
	}

	var searchMoves []board.Move
	if len(opts.searchMoves) > 0 {
		legal := u.pos.GenerateLegalMoves()
		for _, text := range opts.searchMoves {
			for i := 0; i < legal.Len(); i++ {
				if legal.At(i).String() == text {
					searchMoves = append(searchMoves, legal.At(i))
				}
			}
		}
	}

	clock, inc := opts.wtime, opts.winc
	if u.pos.SideToMove == board.Black {
		clock, inc = opts.btime, opts.binc
	}

	req := engine.GoRequest{
		Limits: engine.Limits{
			MaxDepth:  opts.depth,
			NodeLimit: opts.nodes,
			MateIn:    opts.mate,
		},
		Time: engine.TimeLimits{
			MoveTime:  opts.moveTime,
			Clock:     clock,
			Increment: inc,
			MovesToGo: opts.movesToGo,
			Infinite:  opts.infinite,
			Ponder:    opts.ponder,
			HaveClock: opts.wtime > 0 || opts.btime > 0,
		},
		SearchMoves: searchMoves,
	}

	u.searching = true
	u.eng.Go(u.pos, req, u.sendInfo, func(res engine.Result) {
		u.searching = false
		if res.Best.IsNull() {
			u.printf("bestmove 0000\n")
			return
		}
		if !res.Ponder.IsNull() {
			u.printf("bestmove %s ponder %s\n", res.Best.String(), res.Ponder.String())
			return
		}
		u.printf("bestmove %s\n", res.Best.String())
	})
}

func (u *UCI) sendInfo(info engine.Info) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d", info.Depth)

	if mate, ok := info.Score.MateDistance(); ok {
		sign := 1
		if mate < 0 {
			sign = -1
		}
		fmt.Fprintf(&sb, " score mate %d", (mate+sign)/2)
	} else if cp, ok := info.Score.Centipawns(); ok {
		fmt.Fprintf(&sb, " score cp %d", cp)
	}

	fmt.Fprintf(&sb, " nodes %d time %d", info.Nodes, info.Elapsed.Milliseconds())
	if nps := engine.NodesPerSecond(info.Nodes, info.Elapsed); nps > 0 {
		fmt.Fprintf(&sb, " nps %d", nps)
	}
	fmt.Fprintf(&sb, " hashfull %d", u.eng.TranspositionTable().HashFull())

	if len(info.PV) > 0 {
		sb.WriteString(" pv")
		for _, m := range info.PV {
			sb.WriteString(" ")
			sb.WriteString(m.String())
		}
	}

	u.printf("%s\n", sb.String())
}

func (u *UCI) handleStop() {
	if !u.searching {
		return
	}
	u.eng.Stop()
	u.eng.Wait()
}

func (u *UCI) handleQuit() {
	if u.searching {
		u.eng.Stop()
		u.eng.Wait()
	}
	if u.store != nil {
		_ = u.store.SaveOptions(u.eng.Options())
		snap := u.eng.TranspositionTable().Snapshot(u.eng.Options().SnapshotDepth)
		_ = u.store.SaveSnapshot(snap)
		u.store.Close()
	}
}

func (u *UCI) handleSetOption(args []string) {
	name, value := parseSetOption(args)
	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err == nil {
			u.options.HashMB = mb
			u.eng.SetOptions(u.options)
		}
	case "ponder":
		u.options.Ponder = strings.EqualFold(value, "true")
		u.eng.SetOptions(u.options)
	}
}

func parseSetOption(args []string) (name, value string) {
	readingName, readingValue := false, false
	for _, a := range args {
		switch a {
		case "name":
			readingName, readingValue = true, false
		case "value":
			readingName, readingValue = false, true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += a
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += a
			}
		}
	}
	return name, value
}

