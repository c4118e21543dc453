package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/engine"
)

// entryRecordSize is the fixed encoding width of one transposition table
// slot: 4 bytes verification key, 2 bytes score, 1 byte depth, 1 byte node
// type, and 5 bytes for the best move (from, to, promotion, flag, captured).
const entryRecordSize = 4 + 2 + 1 + 1 + 5

// Store wraps a BadgerDB database holding a transposition table snapshot.
// It has no knowledge of chess beyond the shape of engine.TTEntry; it is a
// thin persistence layer, not a cache of its own.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) a BadgerDB database at path for
// transposition table persistence.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveTT writes every occupied slot of tt into the database, keyed by the
// slot's index (the low bits of the Zobrist hash under the table's
// direct-mapping). Loading into a table of the same size restores each
// entry to the slot it was stored from.
func (s *Store) SaveTT(tt *engine.TranspositionTable) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	entries := tt.Entries()
	for i, e := range entries {
		if e.Depth == 0 {
			continue // empty slot, nothing to persist
		}

		key := make([]byte, 4)
		binary.BigEndian.PutUint32(key, uint32(i))

		if err := wb.Set(key, encodeEntry(e)); err != nil {
			return fmt.Errorf("storage: queue entry %d: %w", i, err)
		}
	}

	if err := wb.Flush(); err != nil {
		return fmt.Errorf("storage: flush TT snapshot: %w", err)
	}
	return nil
}

// LoadTT reads a previously saved snapshot into tt. Slots whose index falls
// outside tt's current capacity (the table was resized between runs) are
// skipped rather than erroring, since a partially-warm table is always
// safe: Probe simply misses those slots.
func (s *Store) LoadTT(tt *engine.TranspositionTable) error {
	entries := tt.Entries()
	capacity := len(entries)

	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.Key()
			if len(key) != 4 {
				continue
			}
			idx := int(binary.BigEndian.Uint32(key))
			if idx >= capacity {
				continue
			}

			err := item.Value(func(val []byte) error {
				e, ok := decodeEntry(val)
				if !ok {
					return nil
				}
				entries[idx] = e
				return nil
			})
			if err != nil {
				return fmt.Errorf("storage: decode slot %d: %w", idx, err)
			}
		}
		return nil
	})
}

func encodeEntry(e engine.TTEntry) []byte {
	buf := make([]byte, entryRecordSize)
	binary.BigEndian.PutUint32(buf[0:4], e.Key)
	binary.BigEndian.PutUint16(buf[4:6], uint16(e.Score))
	buf[6] = byte(e.Depth)
	buf[7] = byte(e.Flag)
	buf[8] = byte(e.BestMove.From)
	buf[9] = byte(e.BestMove.To)
	buf[10] = byte(e.BestMove.Promotion)
	buf[11] = byte(e.BestMove.Flag)
	buf[12] = byte(e.BestMove.Captured)
	return buf
}

func decodeEntry(buf []byte) (engine.TTEntry, bool) {
	if len(buf) != entryRecordSize {
		return engine.TTEntry{}, false
	}
	return engine.TTEntry{
		Key:   binary.BigEndian.Uint32(buf[0:4]),
		Score: int16(binary.BigEndian.Uint16(buf[4:6])),
		Depth: int8(buf[6]),
		Flag:  engine.TTFlag(buf[7]),
		BestMove: board.Move{
			From:      board.Square(buf[8]),
			To:        board.Square(buf[9]),
			Promotion: board.PieceType(buf[10]),
			Flag:      board.Flag(buf[11]),
			Captured:  board.Piece(buf[12]),
		},
	}, true
}
