package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/engine"
)

func TestSaveAndLoadTTRoundTrip(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "chessplay-tt-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	pos := board.NewPosition()
	move, err := board.ParseMove("e2e4", pos)
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}

	tt := engine.NewTranspositionTable(1 << 10)
	tt.Store(pos.Hash, 4, 37, engine.TTExact, move)

	dbPath := filepath.Join(tmpDir, "tt")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := store.SaveTT(tt); err != nil {
		t.Fatalf("SaveTT: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	store2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store2.Close()

	tt2 := engine.NewTranspositionTable(1 << 10)
	if err := store2.LoadTT(tt2); err != nil {
		t.Fatalf("LoadTT: %v", err)
	}

	entry, found := tt2.Probe(pos.Hash, 4)
	if !found {
		t.Fatal("expected restored entry to be found")
	}
	if entry.BestMove != move {
		t.Errorf("BestMove = %s, want %s", entry.BestMove, move)
	}
	if entry.Score != 37 {
		t.Errorf("Score = %d, want 37", entry.Score)
	}
	if entry.Flag != engine.TTExact {
		t.Errorf("Flag = %v, want TTExact", entry.Flag)
	}
}

func TestLoadIntoSmallerTableSkipsOutOfRangeSlots(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "chessplay-tt-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	big := engine.NewTranspositionTable(1 << 16)
	// Fabricate a hash whose slot index (1000) is beyond the small table's
	// capacity (16), so it can never have a slot for it.
	hash := uint64(1000)
	move := board.NoMove
	big.Store(hash, 2, 5, engine.TTUpperBound, move)

	store, err := Open(filepath.Join(tmpDir, "tt"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if err := store.SaveTT(big); err != nil {
		t.Fatalf("SaveTT: %v", err)
	}

	small := engine.NewTranspositionTable(1 << 4)
	if err := store.LoadTT(small); err != nil {
		t.Fatalf("LoadTT into smaller table: %v", err)
	}
	// No panic and no spurious hit is the whole assertion here.
	if _, found := small.Probe(hash, 0); found {
		t.Error("did not expect an out-of-range slot to be restored")
	}
}

func TestDefaultTTPath(t *testing.T) {
	path, err := DefaultTTPath()
	if err != nil {
		t.Fatalf("DefaultTTPath: %v", err)
	}
	if path == "" {
		t.Error("DefaultTTPath returned empty path")
	}
}
