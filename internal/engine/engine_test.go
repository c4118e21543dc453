package engine

import (
	"testing"
	"time"

	"github.com/hailam/chessplay/internal/board"
)

func TestSearchBasic(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(DefaultTTEntries)

	move := eng.Search(pos)
	if move == board.NoMove {
		t.Error("Search returned NoMove for starting position")
	}
	t.Logf("Best move: %s", move.String())
}

func TestSearchFindsMateInOne(t *testing.T) {
	pos, err := board.ParseFEN("8/4k3/1r6/8/8/8/r7/4K3 b - - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	eng := NewEngine(DefaultTTEntries)
	move := eng.SearchWithLimits(pos, SearchLimits{Depth: 6, MoveTime: 2 * time.Second})

	want, err := board.ParseMove("b6b1", pos)
	if err != nil {
		t.Fatalf("Failed to parse expected move: %v", err)
	}
	if move != want {
		t.Errorf("Search returned %s, want %s", move.String(), want.String())
	}
}

func TestSearchRespectsDepthLimit(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(DefaultTTEntries)

	var maxDepthSeen int
	eng.OnInfo = func(info SearchInfo) {
		if info.Depth > maxDepthSeen {
			maxDepthSeen = info.Depth
		}
	}

	eng.SearchWithLimits(pos, SearchLimits{Depth: 3, MoveTime: 2 * time.Second})

	if maxDepthSeen > 3 {
		t.Errorf("search exceeded requested depth: reached %d, want <= 3", maxDepthSeen)
	}
	if maxDepthSeen < 1 {
		t.Error("search never completed depth 1")
	}
}

func TestSearchWithUCILimits(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(DefaultTTEntries)

	limits := UCILimits{
		Time: [2]time.Duration{500 * time.Millisecond, 500 * time.Millisecond},
	}

	move := eng.SearchWithUCILimits(pos, limits, 0)
	if move == board.NoMove {
		t.Error("SearchWithUCILimits returned NoMove for starting position")
	}
}

func TestStaticEvalIsSymmetricAndBounded(t *testing.T) {
	pos := board.NewPosition()

	score := Evaluate(pos)
	if score < -50 || score > 50 {
		t.Errorf("starting position eval = %d, want close to 0", score)
	}

	mirrored, err := board.ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}
	if got := Evaluate(mirrored); got != -score {
		t.Errorf("Evaluate(black to move) = %d, want %d (negated)", got, -score)
	}
}

func TestEngineClearResetsHashFull(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(DefaultTTEntries)

	eng.SearchWithLimits(pos, SearchLimits{Depth: 4, MoveTime: time.Second})
	if eng.HashFull() == 0 {
		t.Fatal("expected transposition table to have entries after a search")
	}

	eng.Clear()
	if eng.HashFull() != 0 {
		t.Errorf("HashFull() = %d after Clear, want 0", eng.HashFull())
	}
}

func TestPerftDelegatesToBoard(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(DefaultTTEntries)

	got := eng.Perft(pos, 3)
	want := board.Perft(pos, 3)
	if got != want {
		t.Errorf("Engine.Perft(3) = %d, want %d", got, want)
	}
}
