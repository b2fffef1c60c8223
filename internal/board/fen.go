package board

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFEN parses the six classic FEN fields into a fresh Position. The
// en-passant field is canonicalized per §4.2.1: if no own pawn can actually
// capture en passant, it is dropped before hashing; otherwise the file
// (not the square) is what gets stored and hashed.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("board: FEN needs at least 4 fields, got %d", len(fields))
	}

	p := &Position{EnPassantFile: -1, FullMoveNumber: 1}
	p.KingSquare[White] = NoSquare
	p.KingSquare[Black] = NoSquare

	if err := parsePlacement(p, fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		p.SideToMove = White
	case "b":
		p.SideToMove = Black
	default:
		return nil, fmt.Errorf("board: invalid side to move %q", fields[1])
	}

	if err := parseCastlingField(p, fields[2]); err != nil {
		return nil, err
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("board: invalid en passant square %q", fields[3])
		}
		p.EnPassantFile = int8(sq.File())
	}

	if len(fields) > 4 {
		n, err := strconv.ParseUint(fields[4], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("board: invalid half-move clock %q", fields[4])
		}
		p.HalfMoveClock = clampCounter(n)
	}
	if len(fields) > 5 {
		n, err := strconv.ParseUint(fields[5], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("board: invalid full-move number %q", fields[5])
		}
		p.FullMoveNumber = clampCounter(n)
	}
	if len(fields) > 6 {
		return nil, fmt.Errorf("board: unexpected trailing FEN fields: %v", fields[6:])
	}

	if p.Pieces[White][King].PopCount() != 1 || p.Pieces[Black][King].PopCount() != 1 {
		return nil, fmt.Errorf("board: FEN must have exactly one king per side")
	}

	p.updateOccupied()

	// Canonicalize en passant: only keep it if a pseudo-legal capture exists.
	if p.EnPassantFile >= 0 {
		epSq := p.EnPassantSquare()
		capturers := PawnAttacks(epSq, p.SideToMove.Other()) & p.Pieces[p.SideToMove][Pawn]
		if capturers == 0 {
			p.EnPassantFile = -1
		}
	}

	p.Zobrist = p.computeZobrist()
	p.Pinned = p.computePinned()
	p.updateCheckers()

	p.history = []StackFrame{{
		Move:           NullMove,
		CapturedPiece:  NoPiece,
		CastlingRights: p.CastlingRights,
		EnPassantFile:  p.EnPassantFile,
		HalfMoveClock:  p.HalfMoveClock,
		FullMoveNumber: p.FullMoveNumber,
		Zobrist:        p.Zobrist,
		Pinned:         p.Pinned,
		Checkers:       p.Checkers,
	}}

	return p, nil
}

const maxCounter = 1 << 20 // representable range per §6; real games never approach this

func clampCounter(n uint64) int {
	if n > maxCounter {
		return maxCounter
	}
	return int(n)
}

func parsePlacement(p *Position, placement string) error {
	rows := strings.Split(placement, "/")
	if len(rows) != 8 {
		return fmt.Errorf("board: FEN placement needs 8 ranks, got %d", len(rows))
	}
	for row, rowStr := range rows {
		file := 0
		for _, c := range rowStr {
			if file > 7 {
				return fmt.Errorf("board: too many squares in FEN rank %d", 8-row)
			}
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			piece := PieceFromChar(byte(c))
			if piece == NoPiece {
				return fmt.Errorf("board: invalid piece character %q", c)
			}
			p.setPiece(piece, NewSquare(file, row))
			file++
		}
		if file != 8 {
			return fmt.Errorf("board: rank %d does not sum to 8 files", 8-row)
		}
	}
	return nil
}

func parseCastlingField(p *Position, field string) error {
	if field == "-" {
		return nil
	}
	for _, c := range field {
		switch c {
		case 'K':
			p.CastlingRights |= RightWhiteKingside
		case 'Q':
			p.CastlingRights |= RightWhiteQueenside
		case 'k':
			p.CastlingRights |= RightBlackKingside
		case 'q':
			p.CastlingRights |= RightBlackQueenside
		default:
			return fmt.Errorf("board: invalid castling character %q", c)
		}
	}
	return nil
}

// ToFEN renders the position back into FEN text.
func (p *Position) ToFEN() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, row))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(castlingRightsString(p.CastlingRights))

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassantSquare().String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}

func castlingRightsString(rights uint8) string {
	if rights == 0 {
		return "-"
	}
	s := ""
	if rights&RightWhiteKingside != 0 {
		s += "K"
	}
	if rights&RightWhiteQueenside != 0 {
		s += "Q"
	}
	if rights&RightBlackKingside != 0 {
		s += "k"
	}
	if rights&RightBlackQueenside != 0 {
		s += "q"
	}
	return s
}
