package board

// GenerateLegalMoves produces every legal move from the current position via
// §4.2.3's two-phase scheme: a pseudo-legal sweep restricted to the
// check-blocking mask T, followed by a legality filter for the cases a
// blanket T intersection can't resolve (pins, king safety, en passant,
// castling).
func (p *Position) GenerateLegalMoves() *MoveList {
	ml := &MoveList{}
	T := p.checkMask()
	doubleCheck := p.Checkers.PopCount() >= 2

	if !doubleCheck {
		p.generatePawnMoves(ml, T)
		p.generateNonSliderMoves(ml, Knight, T)
		p.generateSliderMoves(ml, Bishop, T)
		p.generateSliderMoves(ml, Rook, T)
		p.generateSliderMoves(ml, Queen, T)
		if p.Checkers == 0 {
			p.generateCastlingMoves(ml)
		}
		p.generateEnPassantCandidates(ml)
	}
	p.generateKingMoves(ml)

	return p.filterLegal(ml)
}

// checkMask returns T: all squares when not in check, the single checker's
// square (plus the squares between it and the king, for a slider checker) when in single
// check, or the empty set (forcing king-only moves) in double check.
func (p *Position) checkMask() Bitboard {
	switch p.Checkers.PopCount() {
	case 0:
		return Universe
	case 1:
		attackerSq := p.Checkers.LSB()
		if p.PieceAt(attackerSq).Kind() == Knight || p.PieceAt(attackerSq).Kind() == Pawn {
			return SquareBB(attackerSq)
		}
		return SquareBB(attackerSq) | Between(p.KingSquare[p.SideToMove], attackerSq)
	default:
		return Empty
	}
}

func (p *Position) generatePawnMoves(ml *MoveList, T Bitboard) {
	us := p.SideToMove
	them := us.Other()
	pawns := p.Pieces[us][Pawn]
	empty := ^p.AllOccupied
	enemies := p.Occupied[them]

	var push1, push2, capL, capR Bitboard
	var promoRank Bitboard
	var pushDelta int

	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Row5).North() & empty
		capL = pawns.NorthWest() & enemies
		capR = pawns.NorthEast() & enemies
		promoRank = Row0
		pushDelta = -8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Row2).South() & empty
		capL = pawns.SouthWest() & enemies
		capR = pawns.SouthEast() & enemies
		promoRank = Row7
		pushDelta = 8
	}
	push1 &= T
	push2 &= T
	capL &= T
	capR &= T

	emit := func(dests Bitboard, delta int) {
		for dests != 0 {
			to := dests.PopLSB()
			from := Square(int(to) - delta)
			if SquareBB(to)&promoRank != 0 {
				ml.Add(NewPromotionMove(from, to, Queen))
				ml.Add(NewPromotionMove(from, to, Rook))
				ml.Add(NewPromotionMove(from, to, Bishop))
				ml.Add(NewPromotionMove(from, to, Knight))
			} else {
				ml.Add(NewNormalMove(from, to))
			}
		}
	}

	emit(push1, pushDelta)
	for push2 != 0 {
		to := push2.PopLSB()
		ml.Add(NewNormalMove(Square(int(to)-2*pushDelta), to))
	}
	emit(capL, pushDelta-1)
	emit(capR, pushDelta+1)
}

func (p *Position) generateEnPassantCandidates(ml *MoveList) {
	if p.EnPassantFile < 0 {
		return
	}
	us := p.SideToMove
	to := p.EnPassantSquare()
	toBB := SquareBB(to)
	var attackers Bitboard
	if us == White {
		attackers = (toBB.SouthWest() | toBB.SouthEast()) & p.Pieces[us][Pawn]
	} else {
		attackers = (toBB.NorthWest() | toBB.NorthEast()) & p.Pieces[us][Pawn]
	}
	for attackers != 0 {
		from := attackers.PopLSB()
		ml.Add(NewEnPassantMove(from, to))
	}
}

func (p *Position) generateNonSliderMoves(ml *MoveList, pk PieceKind, T Bitboard) {
	us := p.SideToMove
	pieces := p.Pieces[us][pk]
	for pieces != 0 {
		from := pieces.PopLSB()
		dests := KnightAttacks(from) & ^p.Occupied[us] & T
		for dests != 0 {
			ml.Add(NewNormalMove(from, dests.PopLSB()))
		}
	}
}

func (p *Position) generateSliderMoves(ml *MoveList, pk PieceKind, T Bitboard) {
	us := p.SideToMove
	occ := p.AllOccupied
	pieces := p.Pieces[us][pk]
	for pieces != 0 {
		from := pieces.PopLSB()
		var attacks Bitboard
		switch pk {
		case Bishop:
			attacks = BishopAttacks(from, occ)
		case Rook:
			attacks = RookAttacks(from, occ)
		case Queen:
			attacks = QueenAttacks(from, occ)
		}
		dests := attacks & ^p.Occupied[us] & T
		for dests != 0 {
			ml.Add(NewNormalMove(from, dests.PopLSB()))
		}
	}
}

func (p *Position) generateKingMoves(ml *MoveList) {
	us := p.SideToMove
	from := p.KingSquare[us]
	dests := KingAttacks(from) & ^p.Occupied[us]
	for dests != 0 {
		ml.Add(NewNormalMove(from, dests.PopLSB()))
	}
}

// generateCastlingMoves emits castling moves whose right is held, whose
// between-squares are empty, and whose king transit squares (including the
// origin) are unattacked — checked here at generation time since a
// castling move is never "provisionally legal but later rejected" the way
// en passant is.
func (p *Position) generateCastlingMoves(ml *MoveList) {
	us := p.SideToMove
	them := us.Other()
	var types []CastleType
	if us == White {
		types = []CastleType{WhiteKingside, WhiteQueenside}
	} else {
		types = []CastleType{BlackKingside, BlackQueenside}
	}
	for _, ct := range types {
		ci := castlingTable[ct]
		if p.CastlingRights&ci.right == 0 {
			continue
		}
		if p.AllOccupied&ci.empty != 0 {
			continue
		}
		transitOK := true
		t := ci.transit
		for t != 0 {
			sq := t.PopLSB()
			if p.IsSquareAttacked(sq, them) {
				transitOK = false
				break
			}
		}
		if !transitOK {
			continue
		}
		ml.Add(NewCastlingMove(ci.kingFrom, ci.kingTo, ct))
	}
}

// IsSquareAttacked reports whether sq is attacked by color `by`, with the
// defending side's king removed from the occupancy so a slider can be seen
// stepping along its own check ray.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	defender := by.Other()
	occ := p.AllOccupied &^ SquareBB(p.KingSquare[defender])
	return p.IsAttacked(sq, by, occ)
}

// filterLegal applies §4.2.3's legality filter to each pseudo-legal move.
func (p *Position) filterLegal(ml *MoveList) *MoveList {
	result := &MoveList{}
	us := p.SideToMove
	them := us.Other()
	ksq := p.KingSquare[us]

	for i := 0; i < ml.Len(); i++ {
		m := ml.At(i)

		switch {
		case m.Kind() == Castling:
			result.Add(m)

		case m.Kind() == EnPassant:
			p.MakeMove(m)
			legal := !p.IsSquareAttacked(ksq, them)
			p.UnmakeMove()
			if legal {
				result.Add(m)
			}

		case m.From() == ksq:
			occ := p.AllOccupied &^ SquareBB(ksq)
			if !p.IsAttacked(m.To(), them, occ) {
				result.Add(m)
			}

		case p.Pinned.IsSet(m.From()):
			if IsAligned(ksq, m.From(), m.To()) {
				result.Add(m)
			}

		default:
			result.Add(m)
		}
	}
	return result
}
