package engine

import (
	"time"

	"github.com/hailam/chessplay/internal/board"
)

// UCILimits mirrors the time-control fields a "go" command can carry.
type UCILimits struct {
	Time      [2]time.Duration // wtime, btime
	Inc       [2]time.Duration // winc, binc
	MovesToGo int              // moves left before the next control; 0 means sudden death
	MoveTime  time.Duration    // fixed per-move budget, overrides everything else
	Depth     int              // depth cutoff requested by the GUI
	Nodes     uint64           // node cutoff requested by the GUI
	Infinite  bool             // run until "stop"
	Ponder    bool             // pondering, not yet distinguished from a normal search
}

// moveOverhead is shaved off every deadline to cover the round trip between
// the engine deciding to stop and the GUI actually receiving "bestmove".
const moveOverhead = 30 * time.Millisecond

// minSearchBudget is the floor below which a search wouldn't even complete
// one ply reliably.
const minSearchBudget = 10 * time.Millisecond

// TimeManager turns a UCI time control into a soft and a hard deadline for
// the current search, and lets iterative deepening shrink or stretch the
// soft deadline as the best move settles or keeps flipping.
type TimeManager struct {
	started time.Time
	soft    time.Duration // stop between iterations once we pass this
	hard    time.Duration // abort mid-search once we pass this
}

// NewTimeManager returns a manager with no deadlines set; call Init before use.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init derives soft/hard deadlines for one search from the control in
// effect, the side to move, and the current ply (used only to scale the
// sudden-death moves-to-go estimate).
func (tm *TimeManager) Init(limits UCILimits, us board.Color, ply int) {
	tm.started = time.Now()

	if limits.MoveTime > 0 {
		budget := limits.MoveTime - moveOverhead
		if budget < minSearchBudget {
			budget = minSearchBudget
		}
		tm.soft, tm.hard = budget, budget
		return
	}

	if limits.Infinite || limits.Time[us] == 0 {
		tm.soft, tm.hard = time.Hour, time.Hour
		return
	}

	remaining := limits.Time[us]
	inc := limits.Inc[us]
	tm.soft, tm.hard = allocate(remaining, inc, movesToGo(limits.MovesToGo, ply))

	if ply < 8 {
		// Opening moves are cheap to search well before the table thins out;
		// hold a little time in reserve for the middlegame.
		tm.soft = tm.soft * 85 / 100
	}

	if tm.soft < minSearchBudget {
		tm.soft = minSearchBudget
	}
	if tm.hard < 50*time.Millisecond {
		tm.hard = 50 * time.Millisecond
	}
}

// movesToGo estimates how many moves remain before a sudden-death clock
// effectively resets, tapering as the game progresses.
func movesToGo(declared, ply int) int {
	if declared > 0 {
		return declared
	}
	estimate := 50 - ply/4
	if estimate < 10 {
		return 10
	}
	if estimate > 50 {
		return 50
	}
	return estimate
}

// allocate splits remaining clock time into a soft target for this move (its
// share of the clock plus 90% of the increment) and a hard ceiling it must
// never cross (at most five times the soft target and at most 80% of the
// remaining clock).
func allocate(remaining, inc time.Duration, mtg int) (soft, hard time.Duration) {
	soft = remaining/time.Duration(mtg) + inc*9/10

	ceiling := soft * 5
	if fromClock := remaining * 8 / 10; fromClock < ceiling {
		ceiling = fromClock
	}
	if safety := remaining * 95 / 100; ceiling > safety {
		ceiling = safety
	}
	return soft, ceiling
}

// Elapsed reports how long the current search has been running.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.started)
}

// OptimumTime is the soft deadline: iterative deepening should not start a
// new depth once it has passed, but may finish the one in progress.
func (tm *TimeManager) OptimumTime() time.Duration {
	return tm.soft
}

// MaximumTime is the hard deadline: the search must abort once it is crossed.
func (tm *TimeManager) MaximumTime() time.Duration {
	return tm.hard
}

// ShouldStop reports whether the hard deadline has been crossed.
func (tm *TimeManager) ShouldStop() bool {
	return tm.Elapsed() >= tm.hard
}

// PastOptimum reports whether the soft deadline has been crossed.
func (tm *TimeManager) PastOptimum() bool {
	return tm.Elapsed() >= tm.soft
}

// AdjustForStability shrinks the soft deadline once the root best move has
// held for several consecutive iterations, since extra search is unlikely
// to change the decision.
func (tm *TimeManager) AdjustForStability(stableIterations int) {
	switch {
	case stableIterations >= 6:
		tm.soft = tm.soft * 40 / 100
	case stableIterations >= 4:
		tm.soft = tm.soft * 60 / 100
	case stableIterations >= 2:
		tm.soft = tm.soft * 80 / 100
	}
}

// AdjustForInstability stretches the soft deadline, never past the hard one,
// when the root best move keeps flipping between iterations.
func (tm *TimeManager) AdjustForInstability(flips int) {
	switch {
	case flips >= 4:
		tm.soft = tm.soft * 200 / 100
	case flips >= 2:
		tm.soft = tm.soft * 150 / 100
	default:
		return
	}
	if tm.soft > tm.hard {
		tm.soft = tm.hard
	}
}
