package board

import "fmt"

// Flag distinguishes the special-move categories generation must track.
type Flag uint8

const (
	FlagNormal Flag = iota
	FlagPromotion
	FlagEnPassant
	FlagCastling
)

// Move describes a single chess move. The captured piece (NoPiece if the
// move is not a capture) is recorded at generation time so that ordering,
// make/unmake, and PV/UCI output never need to re-derive it from a position
// that may have already moved past the point the move was generated from.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType // valid only when Flag == FlagPromotion
	Flag      Flag
	Captured  Piece // NoPiece if this move does not capture
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare, Promotion: NoPieceType, Captured: NoPiece}

// NewMove creates a normal (possibly capturing) move.
func NewMove(from, to Square, captured Piece) Move {
	return Move{From: from, To: to, Promotion: NoPieceType, Flag: FlagNormal, Captured: captured}
}

// NewPromotion creates a promotion move, capturing if captured != NoPiece.
func NewPromotion(from, to Square, promo PieceType, captured Piece) Move {
	return Move{From: from, To: to, Promotion: promo, Flag: FlagPromotion, Captured: captured}
}

// NewEnPassant creates an en passant capture move. captured is always the
// enemy pawn removed from the passed-through square, not the destination.
func NewEnPassant(from, to Square, captured Piece) Move {
	return Move{From: from, To: to, Promotion: NoPieceType, Flag: FlagEnPassant, Captured: captured}
}

// NewCastling creates a castling move (the king's movement; the rook's
// movement is implied by the destination square and applied in MakeMove).
func NewCastling(from, to Square) Move {
	return Move{From: from, To: to, Promotion: NoPieceType, Flag: FlagCastling, Captured: NoPiece}
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool { return m.Flag == FlagPromotion }

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool { return m.Flag == FlagCastling }

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool { return m.Flag == FlagEnPassant }

// IsCapture returns true if this move captures a piece.
func (m Move) IsCapture() bool { return m.Captured != NoPiece }

// IsQuiet returns true if this is neither a capture nor a promotion.
func (m Move) IsQuiet() bool { return !m.IsCapture() && !m.IsPromotion() }

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From.String() + m.To.String()

	if m.IsPromotion() {
		promoChars := []byte{'n', 'b', 'r', 'q'}
		s += string(promoChars[m.Promotion-Knight])
	}

	return s
}

// ParseMove parses a UCI format move string against the given position,
// filling in the captured piece and special-move flags by inspecting pos.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}
	pt := piece.Type()

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return NewPromotion(from, to, promo, pos.PieceAt(to)), nil
	}

	if pt == King && abs(int(to)-int(from)) == 2 {
		return NewCastling(from, to), nil
	}

	if pt == Pawn && to == pos.EnPassant && pos.EnPassant != NoSquare {
		captured := NewPiece(Pawn, pos.SideToMove.Other())
		return NewEnPassant(from, to, captured), nil
	}

	return NewMove(from, to, pos.PieceAt(to)), nil
}

// MoveList is a fixed-size list of moves to avoid allocations.
// 218 is the documented upper bound on legal moves in any reachable chess
// position; the list is sized with headroom above that.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set sets the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// UndoInfo stores the irreversible state needed to undo a move. It is
// separate from the Move record itself (which already carries the
// captured piece) because castling rights, en-passant target, half-move
// clock, and hash are properties of the position, not the move.
type UndoInfo struct {
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
	Checkers       Bitboard
}
