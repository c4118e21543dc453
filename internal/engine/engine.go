package engine

import (
	"strconv"
	"time"

	"github.com/hailam/chessplay/internal/board"
)

// SearchInfo contains information about a completed iterative-deepening
// iteration, suitable for emission as a UCI "info" line.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int // Permille of hash table used
}

// SearchLimits specifies constraints on a fixed-depth or fixed-time search.
type SearchLimits struct {
	Depth    int           // Maximum depth (0 = MaxDepth)
	Nodes    uint64        // Maximum nodes (0 = no limit)
	MoveTime time.Duration // Time for this move (0 = no limit)
	Infinite bool          // Search until stopped
}

// Engine drives a single Searcher through iterative deepening, reporting
// progress through OnInfo and honoring either a fixed SearchLimits budget
// or full UCI time controls (UCILimits via SearchWithUCILimits).
type Engine struct {
	tt       *TranspositionTable
	searcher *Searcher

	// OnInfo is invoked once per completed iteration.
	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine with a transposition table sized for
// the given number of entries (rounded down to a power of two). Pass
// DefaultTTEntries for the standard size.
func NewEngine(ttEntries int) *Engine {
	tt := NewTranspositionTable(ttEntries)
	return &Engine{
		tt:       tt,
		searcher: NewSearcher(tt),
	}
}

// defaultSearchTime is the budget Search uses, since it takes no time control.
const defaultSearchTime = 6 * time.Second

// Search finds the best move for the given position using MaxDepth and a
// fixed defaultSearchTime budget; callers that need time control should use
// SearchWithUCILimits.
func (e *Engine) Search(pos *board.Position) board.Move {
	return e.SearchWithLimits(pos, SearchLimits{MoveTime: defaultSearchTime})
}

// SearchWithLimits runs iterative deepening bounded by depth, node count,
// and/or a fixed per-move time budget.
func (e *Engine) SearchWithLimits(pos *board.Position, limits SearchLimits) board.Move {
	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > MaxDepth {
		maxDepth = MaxDepth
	}

	var deadline time.Time
	if limits.MoveTime > 0 {
		deadline = time.Now().Add(limits.MoveTime)
	}

	return e.iterativeDeepen(pos, maxDepth, limits.Nodes, func() bool {
		return !deadline.IsZero() && time.Now().After(deadline)
	}, nil)
}

// SearchWithUCILimits runs iterative deepening under full UCI time controls
// (wtime/btime/winc/binc/movestogo), adjusting the deadline as the search's
// best move stabilizes or destabilizes across iterations.
func (e *Engine) SearchWithUCILimits(pos *board.Position, limits UCILimits, ply int) board.Move {
	tm := NewTimeManager()
	tm.Init(limits, pos.SideToMove, ply)

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > MaxDepth {
		maxDepth = MaxDepth
	}

	return e.iterativeDeepen(pos, maxDepth, limits.Nodes, tm.ShouldStop, tm)
}

// iterativeDeepen runs the shared iterative deepening loop: for d = 1, 2, …
// call the root search at depth d, emit an info line, and record the best
// move from the last fully-completed iteration. Depth 1 always completes.
// An aborted iteration (stop signal or deadline) discards its own partial
// results and stops the loop; tm, if non-nil, additionally gets to shorten
// or extend the deadline based on move stability.
func (e *Engine) iterativeDeepen(pos *board.Position, maxDepth int, nodeLimit uint64, deadlineHit func() bool, tm *TimeManager) board.Move {
	e.searcher.ResetStop()

	startTime := time.Now()
	var bestMove board.Move
	var bestScore int
	var lastMove board.Move
	var totalNodes uint64
	var stability, instability int

	watchDone := make(chan struct{})
	defer close(watchDone)

	for depth := 1; depth <= maxDepth; depth++ {
		if depth == 2 && deadlineHit != nil {
			// From depth 2 on, a crossed deadline aborts the running iteration.
			go func() {
				for !deadlineHit() {
					select {
					case <-watchDone:
						return
					case <-time.After(time.Millisecond):
					}
				}
				e.searcher.Stop()
			}()
		}
		e.searcher.Reset()
		move, score := e.searcher.Search(pos, depth)
		totalNodes += e.searcher.Nodes()

		if e.searcher.Aborted() {
			break
		}
		if move == board.NoMove {
			break
		}

		if depth > 1 {
			if move == lastMove {
				stability++
				instability = 0
			} else {
				instability++
				stability = 0
			}
		}
		lastMove = move
		bestMove = move
		bestScore = score

		pv := e.searcher.CollectPV(pos, depth)

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth:    depth,
				Score:    bestScore,
				Nodes:    totalNodes,
				Time:     time.Since(startTime),
				PV:       pv,
				HashFull: e.tt.HashFull(),
			})
		}

		if bestScore > MateScore-MaxPly || bestScore < -MateScore+MaxPly {
			break
		}
		if nodeLimit > 0 && totalNodes >= nodeLimit {
			break
		}

		if tm != nil {
			if stability >= 6 {
				tm.AdjustForStability(stability)
			} else if instability >= 2 {
				tm.AdjustForInstability(instability)
			}
			if tm.PastOptimum() && stability >= 4 {
				break
			}
		}
		if deadlineHit != nil && deadlineHit() {
			break
		}
	}

	return bestMove
}

// Stop signals the current search to abandon its running iteration.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// Clear clears the transposition table, as "ucinewgame" requires.
func (e *Engine) Clear() {
	e.tt.Clear()
}

// Resize replaces the engine's transposition table in place, as
// "setoption name Hash" requires. The Engine pointer itself doesn't change,
// so callers holding onto it (e.g. for TT persistence) keep seeing the
// resized table through TT().
func (e *Engine) Resize(ttEntries int) {
	e.tt = NewTranspositionTable(ttEntries)
	e.searcher = NewSearcher(e.tt)
}

// TT returns the engine's transposition table, exposed so a persistence
// layer can snapshot or restore it between process runs.
func (e *Engine) TT() *TranspositionTable {
	return e.tt
}

// Perft counts leaf nodes of the legal-move tree, delegating to board.Perft.
func (e *Engine) Perft(pos *board.Position, depth int) int64 {
	return board.Perft(pos, depth)
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// HashFull returns the permille of the transposition table currently in use.
func (e *Engine) HashFull() int {
	return e.tt.HashFull()
}

// ScoreToString converts a centipawn (or mate-distance-encoded) score to a
// human-readable string.
func ScoreToString(score int) string {
	if score > MateScore-100 {
		mateIn := (MateScore - score + 1) / 2
		return "Mate in " + strconv.Itoa(mateIn)
	}
	if score < -MateScore+100 {
		mateIn := (MateScore + score + 1) / 2
		return "Mated in " + strconv.Itoa(mateIn)
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	return sign + strconv.Itoa(pawns) + "." + strconv.Itoa(centipawns)
}
