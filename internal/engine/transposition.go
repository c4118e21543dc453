package engine

import (
	"github.com/hailam/chessplay/internal/board"
)

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // Exact score
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
)

// DefaultTTEntries is the default table size: 2^20 slots.
const DefaultTTEntries = 1 << 20

// TTEntry represents an entry in the transposition table.
type TTEntry struct {
	Key      uint32     // Upper 32 bits of Zobrist hash for verification
	BestMove board.Move // Best move found
	Score    int16      // Score (bounded by flag)
	Depth    int8       // Search depth
	Flag     TTFlag     // Type of bound
}

// TranspositionTable is a direct-mapped, fixed-capacity cache of search
// results. Slot index is hash mod size, where size is a power of two.
// board.Perft does not use it.
type TranspositionTable struct {
	entries []TTEntry
	size    uint64
	mask    uint64

	hits   uint64
	probes uint64
}

// NewTranspositionTable creates a table holding the given number of entries,
// rounded down to a power of two. Pass DefaultTTEntries for the standard size.
func NewTranspositionTable(numEntries int) *TranspositionTable {
	size := roundDownToPowerOf2(uint64(numEntries))
	if size == 0 {
		size = 1
	}
	return &TranspositionTable{
		entries: make([]TTEntry, size),
		size:    size,
		mask:    size - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe looks up a position, requiring the stored depth be at least
// requiredDepth.
func (tt *TranspositionTable) Probe(hash uint64, requiredDepth int) (TTEntry, bool) {
	tt.probes++

	idx := hash & tt.mask
	entry := tt.entries[idx]

	if entry.Depth > 0 && entry.Key == uint32(hash>>32) && int(entry.Depth) >= requiredDepth {
		tt.hits++
		return entry, true
	}

	return TTEntry{}, false
}

// ProbeExact looks up a position requiring the stored depth equal
// requiredDepth exactly, rather than be at least requiredDepth as in Probe.
func (tt *TranspositionTable) ProbeExact(hash uint64, requiredDepth int) (TTEntry, bool) {
	idx := hash & tt.mask
	entry := tt.entries[idx]

	if entry.Key == uint32(hash>>32) && int(entry.Depth) == requiredDepth {
		return entry, true
	}

	return TTEntry{}, false
}

// ProbeMove looks up a position regardless of stored depth, used for PV
// reconstruction and TT-move ordering hints.
func (tt *TranspositionTable) ProbeMove(hash uint64) (TTEntry, bool) {
	idx := hash & tt.mask
	entry := tt.entries[idx]
	if entry.Key == uint32(hash>>32) && entry.Depth > 0 {
		return entry, true
	}
	return TTEntry{}, false
}

// Store saves a position, using an always-replace strategy with one
// exception: an Exact entry is never overwritten by a non-Exact entry at the
// same slot. An Exact entry may always overwrite.
func (tt *TranspositionTable) Store(hash uint64, depth int, score int, flag TTFlag, bestMove board.Move) {
	idx := hash & tt.mask
	entry := &tt.entries[idx]

	if entry.Depth > 0 && entry.Flag == TTExact && flag != TTExact {
		return
	}

	entry.Key = uint32(hash >> 32)
	entry.BestMove = bestMove
	entry.Score = int16(score)
	entry.Depth = int8(depth)
	entry.Flag = flag
}

// Clear clears the transposition table.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.hits = 0
	tt.probes = 0
}

// HashFull returns the permille (parts per thousand) of the table that is used.
func (tt *TranspositionTable) HashFull() int {
	used := 0
	sampleSize := 1000
	if uint64(sampleSize) > tt.size {
		sampleSize = int(tt.size)
	}

	for i := 0; i < sampleSize; i++ {
		if tt.entries[i].Depth > 0 {
			used++
		}
	}

	return (used * 1000) / sampleSize
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// Size returns the number of entries in the table.
func (tt *TranspositionTable) Size() uint64 {
	return tt.size
}

// Entries returns the backing slice, for snapshotting to persistent storage.
func (tt *TranspositionTable) Entries() []TTEntry {
	return tt.entries
}

// AdjustScoreFromTT adjusts a score read from the transposition table.
// Mate scores need to be adjusted based on ply distance.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT adjusts a score for storage in the transposition table.
func AdjustScoreToTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
