package board

// Perft counts leaf nodes of the legal-move tree rooted at pos, down to the
// given depth. It is the standard correctness oracle for move generation:
// counts are compared against known-good reference values for a handful of
// tricky positions (see chessprogramming.org's Perft_Results page).
//
// pos is left unmodified: every move made while walking the tree is undone
// before Perft returns, including its Zobrist hash.
func Perft(pos *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return int64(moves.Len())
	}

	var nodes int64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		nodes += Perft(pos, depth-1)
		pos.UnmakeMove(m, undo)
	}
	return nodes
}

// PerftDivide runs Perft one ply shallower for every legal root move and
// reports the per-move breakdown, keyed by the move's UCI string (e.g.
// "e2e4", "e7e8q"). It is used to localize a move generation bug: the
// divide counts are compared move-by-move against a reference engine until
// the first mismatching root move identifies where the generators diverge.
func PerftDivide(pos *Position, depth int) map[string]uint64 {
	result := make(map[string]uint64)
	if depth < 1 {
		return result
	}

	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		result[m.String()] += uint64(Perft(pos, depth-1))
		pos.UnmakeMove(m, undo)
	}
	return result
}
