package engine

import (
	"github.com/hailam/chessplay/internal/board"
)

// Move ordering priorities
const (
	TTMoveScore     = 10000000 // TT move gets highest priority
	GoodCaptureBase = 1000000  // Base score for captures, scaled by MVV-LVA
)

// MVV-LVA (Most Valuable Victim - Least Valuable Attacker) scores.
// Higher score = search first. Indexed [victim][attacker].
var mvvLva = [6][6]int{
	//       P    N    B    R    Q    K  (attacker)
	/* P */ {15, 14, 14, 13, 12, 11}, // Pawn victim
	/* N */ {25, 24, 24, 23, 22, 21}, // Knight victim
	/* B */ {35, 34, 34, 33, 32, 31}, // Bishop victim
	/* R */ {45, 44, 44, 43, 42, 41}, // Rook victim
	/* Q */ {55, 54, 54, 53, 52, 51}, // Queen victim
	/* K */ {0, 0, 0, 0, 0, 0},       // King can't be captured
}

// MoveOrderer scores moves for search ordering: the transposition table's
// recorded best move first, then captures by MVV-LVA, then non-capturing
// promotions (queen first), then quiet moves. PickMove's swaps do not keep
// equally scored moves in generation order.
type MoveOrderer struct{}

// NewMoveOrderer creates a new move orderer.
func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// Clear resets the move orderer for a new search. Kept as a no-op hook since
// the searcher calls it between iterations; there is currently no state to
// reset.
func (mo *MoveOrderer) Clear() {}

// ScoreMoves assigns ordering scores to every move in the list. pos must be
// the position the moves were generated from (not yet mutated), since the
// attacking piece's type is looked up from the origin square; the captured
// piece's type comes directly from the move record.
func (mo *MoveOrderer) ScoreMoves(pos *board.Position, moves *board.MoveList, ttMove board.Move) []int {
	scores := make([]int, moves.Len())

	for i := 0; i < moves.Len(); i++ {
		scores[i] = mo.scoreMove(pos, moves.Get(i), ttMove)
	}

	return scores
}

// scoreMove returns the ordering score for a single move.
func (mo *MoveOrderer) scoreMove(pos *board.Position, m board.Move, ttMove board.Move) int {
	if m == ttMove {
		return TTMoveScore
	}

	if m.IsCapture() {
		var victim board.PieceType
		if m.IsEnPassant() {
			victim = board.Pawn
		} else {
			victim = m.Captured.Type()
		}

		attacker := board.Pawn
		if piece := pos.PieceAt(m.From); piece != board.NoPiece {
			attacker = piece.Type()
		}

		return GoodCaptureBase + mvvLva[victim][attacker]*1000
	}

	if m.IsPromotion() {
		return GoodCaptureBase - 1000 + int(m.Promotion)*100
	}

	return 0
}

// PickMove selects the best remaining move (by scores[index:]) and swaps it
// into position index. This allows lazy partial-selection-sort ordering:
// only as many comparisons run as moves are actually visited.
func PickMove(moves *board.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < moves.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		moves.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}
