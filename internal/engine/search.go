package engine

import (
	"sync/atomic"

	"github.com/hailam/chessplay/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128

	// MaxDepth bounds iterative deepening; the engine never searches deeper
	// than this even given unlimited time.
	MaxDepth = 50
)

// Searcher performs the alpha-beta search for a single position. It is not
// safe for concurrent use; callers run one search at a time.
type Searcher struct {
	pos     *board.Position
	tt      *TranspositionTable
	orderer *MoveOrderer

	nodes    uint64
	stopFlag atomic.Bool
	aborted  bool

	undoStack [MaxPly]board.UndoInfo
}

// NewSearcher creates a new searcher sharing the given transposition table.
func NewSearcher(tt *TranspositionTable) *Searcher {
	return &Searcher{
		tt:      tt,
		orderer: NewMoveOrderer(),
	}
}

// Stop signals the search to abandon its current iteration.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Reset clears per-iteration counters and ordering state; iterative
// deepening calls it before every depth. It does not clear the stop flag, so callers
// intending to reuse a Searcher across "go" commands should call
// ResetStop as well.
func (s *Searcher) Reset() {
	s.nodes = 0
	s.aborted = false
	s.orderer.Clear()
}

// ResetStop clears the stop flag so the searcher is ready for a new command.
func (s *Searcher) ResetStop() {
	s.stopFlag.Store(false)
}

// Nodes returns the number of nodes searched since the last Reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Aborted reports whether the most recent call to Search was abandoned
// mid-iteration due to a stop signal or deadline. Its result must be
// discarded by the caller in favor of the previous iteration's result.
func (s *Searcher) Aborted() bool {
	return s.aborted
}

// Search runs a single fixed-depth root search and returns the best move
// found together with its score. The transposition table must already hold
// any prior iterations' entries; the best move is recovered by probing the
// table after the search completes, since Store always records the root's
// best move alongside its bound.
func (s *Searcher) Search(pos *board.Position, depth int) (board.Move, int) {
	s.pos = pos
	s.aborted = false

	score := s.negamax(depth, 0, -Infinity, Infinity)

	if s.stopFlag.Load() {
		s.aborted = true
	}

	var bestMove board.Move
	if entry, found := s.tt.ProbeMove(pos.Hash); found {
		bestMove = entry.BestMove
	}

	return bestMove, score
}

// negamax implements fail-soft alpha-beta search with transposition table
// cutoffs and quiescence at the leaves.
func (s *Searcher) negamax(depth, ply int, alpha, beta int) int {
	if s.nodes&4095 == 0 && s.stopFlag.Load() {
		return 0
	}

	s.nodes++

	origAlpha := alpha

	var ttMove board.Move
	ttEntry, found := s.tt.Probe(s.pos.Hash, depth)
	if found {
		ttMove = ttEntry.BestMove
		score := AdjustScoreFromTT(int(ttEntry.Score), ply)
		switch ttEntry.Flag {
		case TTExact:
			return score
		case TTLowerBound:
			if score > alpha {
				alpha = score
			}
		case TTUpperBound:
			if score < beta {
				beta = score
			}
		}
		if alpha >= beta {
			return score
		}
	} else if probe, ok := s.tt.ProbeMove(s.pos.Hash); ok {
		ttMove = probe.BestMove
	}

	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	inCheck := s.pos.InCheck()
	moves := s.pos.GenerateLegalMoves()

	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	scores := s.orderer.ScoreMoves(s.pos, moves, ttMove)

	bestScore := -Infinity
	bestMove := board.NoMove
	flag := TTUpperBound

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		s.undoStack[ply] = s.pos.MakeMove(move)
		score := -s.negamax(depth-1, ply+1, -beta, -alpha)
		s.pos.UnmakeMove(move, s.undoStack[ply])

		if s.stopFlag.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = move

			if score > alpha {
				alpha = score
			}
		}

		if score >= beta {
			s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(score, ply), TTLowerBound, bestMove)
			return score
		}
	}

	if alpha > origAlpha {
		flag = TTExact
	}
	s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove)

	return bestScore
}

// quiescence searches only captures (and promotions, which carry a large
// material swing) to avoid the horizon effect. It never consults or updates
// the transposition table.
func (s *Searcher) quiescence(ply int, alpha, beta int) int {
	const maxQuiescencePly = 32
	if ply >= MaxPly || ply > maxQuiescencePly {
		return Evaluate(s.pos)
	}

	if s.stopFlag.Load() {
		return 0
	}

	s.nodes++

	standPat := Evaluate(s.pos)

	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	if standPat+QueenValue < alpha {
		return alpha
	}

	moves := s.pos.GenerateCaptures()
	scores := s.orderer.ScoreMoves(s.pos, moves, board.NoMove)

	inCheck := s.pos.InCheck()

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		if !inCheck && !move.IsPromotion() {
			var captureValue int
			if move.IsEnPassant() {
				captureValue = PawnValue
			} else if move.Captured != board.NoPiece {
				captureValue = pieceValues[move.Captured.Type()]
			}
			if standPat+captureValue+200 < alpha {
				continue
			}
		}

		undo := s.pos.MakeMove(move)
		score := -s.quiescence(ply+1, -beta, -alpha)
		s.pos.UnmakeMove(move, undo)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

// CollectPV walks the transposition table from pos, following Exact entries'
// best moves, to reconstruct the principal variation of the last completed
// search. maxLen bounds the walk (the completed search depth) to guard
// against TT cycles caused by hash collisions. pos is left unmodified: every
// move applied during the walk is undone before returning.
func (s *Searcher) CollectPV(pos *board.Position, maxLen int) []board.Move {
	var pv []board.Move
	var undos []board.UndoInfo

	for i := 0; i < maxLen; i++ {
		entry, found := s.tt.ProbeMove(pos.Hash)
		if !found || entry.Flag != TTExact || entry.BestMove == board.NoMove {
			break
		}

		move := entry.BestMove
		undo := pos.MakeMove(move)
		pv = append(pv, move)
		undos = append(undos, undo)
	}

	for i := len(pv) - 1; i >= 0; i-- {
		pos.UnmakeMove(pv[i], undos[i])
	}

	return pv
}
