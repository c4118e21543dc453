// Package engine implements the chess AI search engine.
package engine

import (
	"github.com/hailam/chessplay/internal/board"
)

// Evaluation constants
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

// Piece values array for quick lookup, indexed by board.PieceType.
var pieceValues = [7]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue, 0}

// Piece-Square Tables (PST) for positional evaluation. Each table already
// has the piece's material value folded in: the sum over occupied squares
// yields material + position directly. Rows run rank-8-first (index 0 is
// rank 8, index 56 is rank 1), the same top-down order a FEN placement
// field is written in. A Black piece's own square indexes straight into
// the table; a White piece must mirror its square first, since White
// advances from index 56 toward index 0.

// Pawn PST - encourages central control and advancement
var pawnMgPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	150, 150, 150, 150, 150, 150, 150, 150,
	110, 110, 120, 130, 130, 120, 110, 110,
	105, 105, 110, 125, 125, 110, 105, 105,
	100, 100, 100, 120, 120, 100, 100, 100,
	105, 95, 90, 100, 100, 90, 95, 105,
	105, 110, 110, 80, 80, 110, 110, 105,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var pawnEgPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	180, 180, 180, 180, 180, 180, 180, 180,
	130, 130, 130, 130, 130, 130, 130, 130,
	115, 115, 115, 115, 115, 115, 115, 115,
	105, 105, 105, 105, 105, 105, 105, 105,
	100, 100, 100, 100, 100, 100, 100, 100,
	100, 100, 100, 100, 100, 100, 100, 100,
	0, 0, 0, 0, 0, 0, 0, 0,
}

// Knight PST - encourages central positioning, penalizes the rim
var knightMgPST = [64]int{
	270, 280, 290, 290, 290, 290, 280, 270,
	280, 300, 320, 320, 320, 320, 300, 280,
	290, 320, 330, 335, 335, 330, 320, 290,
	290, 325, 335, 340, 340, 335, 325, 290,
	290, 320, 335, 340, 340, 335, 320, 290,
	290, 325, 330, 335, 335, 330, 325, 290,
	280, 300, 320, 325, 325, 320, 300, 280,
	270, 280, 290, 290, 290, 290, 280, 270,
}

var knightEgPST = knightMgPST

// Bishop PST - encourages central diagonals
var bishopMgPST = [64]int{
	310, 320, 320, 320, 320, 320, 320, 310,
	320, 330, 330, 330, 330, 330, 330, 320,
	320, 330, 335, 340, 340, 335, 330, 320,
	320, 335, 335, 340, 340, 335, 335, 320,
	320, 330, 340, 340, 340, 340, 330, 320,
	320, 340, 340, 340, 340, 340, 340, 320,
	320, 335, 330, 330, 330, 330, 335, 320,
	310, 320, 320, 320, 320, 320, 320, 310,
}

var bishopEgPST = bishopMgPST

// Rook PST - encourages 7th rank and open files
var rookMgPST = [64]int{
	500, 500, 500, 500, 500, 500, 500, 500,
	505, 510, 510, 510, 510, 510, 510, 505,
	495, 500, 500, 500, 500, 500, 500, 495,
	495, 500, 500, 500, 500, 500, 500, 495,
	495, 500, 500, 500, 500, 500, 500, 495,
	495, 500, 500, 500, 500, 500, 500, 495,
	495, 500, 500, 500, 500, 500, 500, 495,
	500, 500, 500, 505, 505, 500, 500, 500,
}

var rookEgPST = rookMgPST

// Queen PST - slight central preference
var queenMgPST = [64]int{
	880, 890, 890, 895, 895, 890, 890, 880,
	890, 900, 900, 900, 900, 900, 900, 890,
	890, 900, 905, 905, 905, 905, 900, 890,
	895, 900, 905, 905, 905, 905, 900, 895,
	900, 900, 905, 905, 905, 905, 900, 895,
	890, 905, 905, 905, 905, 905, 900, 890,
	890, 900, 905, 900, 900, 900, 900, 890,
	880, 890, 890, 895, 895, 890, 890, 880,
}

var queenEgPST = queenMgPST

// King PST (middlegame) - encourages castling and staying behind cover
var kingMgPST = [64]int{
	19970, 19960, 19960, 19950, 19950, 19960, 19960, 19970,
	19970, 19960, 19960, 19950, 19950, 19960, 19960, 19970,
	19970, 19960, 19960, 19950, 19950, 19960, 19960, 19970,
	19970, 19960, 19960, 19950, 19950, 19960, 19960, 19970,
	19980, 19970, 19970, 19960, 19960, 19970, 19970, 19980,
	19990, 19980, 19980, 19980, 19980, 19980, 19980, 19990,
	20020, 20020, 20000, 20000, 20000, 20000, 20020, 20020,
	20020, 20030, 20010, 20000, 20000, 20010, 20030, 20020,
}

// King PST (endgame) - the king should be active and central
var kingEgPST = [64]int{
	19950, 19960, 19970, 19980, 19980, 19970, 19960, 19950,
	19970, 19980, 19990, 20000, 20000, 19990, 19980, 19970,
	19970, 19990, 20020, 20030, 20030, 20020, 19990, 19970,
	19970, 19990, 20030, 20040, 20040, 20030, 19990, 19970,
	19970, 19990, 20030, 20040, 20040, 20030, 19990, 19970,
	19970, 19990, 20020, 20030, 20030, 20020, 19990, 19970,
	19970, 19970, 20000, 20000, 20000, 20000, 19970, 19970,
	19950, 19970, 19970, 19970, 19970, 19970, 19970, 19950,
}

// mgTables and egTables are indexed by board.PieceType for quick lookup,
// the king's two tables included.
var mgTables = [...][64]int{pawnMgPST, knightMgPST, bishopMgPST, rookMgPST, queenMgPST, kingMgPST}
var egTables = [...][64]int{pawnEgPST, knightEgPST, bishopEgPST, rookEgPST, queenEgPST, kingEgPST}

// phaseWeight assigns a game-phase weight per piece type: knight=1, bishop=1,
// rook=2, queen=4, pawn=0, king=0.
var phaseWeight = [6]int{0, 1, 1, 2, 4, 0}

// maxPhase is the phase total at which the position is considered fully
// midgame (two knights, two bishops, two rooks, one queen per side).
const maxPhase = 24

// Evaluate returns the tapered piece-square evaluation of the position from
// the side to move's perspective (negamax convention).
func Evaluate(pos *board.Position) int {
	var mg, eg, phase int

	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}

		for pt := board.Pawn; pt <= board.King; pt++ {
			bb := pos.Pieces[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()

				pstSq := sq
				if c == board.White {
					pstSq = sq.Mirror()
				}

				mg += sign * mgTables[pt][pstSq]
				eg += sign * egTables[pt][pstSq]
				phase += phaseWeight[pt]
			}
		}
	}

	if phase > maxPhase {
		phase = maxPhase
	}

	score := (mg*phase + eg*(maxPhase-phase)) / maxPhase

	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}
