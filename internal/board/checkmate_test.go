package board

import "testing"

// TestTerminalPositions exercises IsCheckmate/IsStalemate/HasLegalMoves
// against known terminal and non-terminal positions.
func TestTerminalPositions(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		checkmate bool
		stalemate bool
		hasLegal  bool
	}{
		{
			name:      "back rank mate",
			fen:       "R6k/6pp/8/8/8/8/8/K7 b - - 0 1",
			checkmate: true,
			hasLegal:  false,
		},
		{
			name:     "king escapes by capturing the checker",
			fen:      "6Rk/8/8/8/8/8/8/K7 b - - 0 1",
			hasLegal: true,
		},
		{
			name:      "classic queen and king stalemate",
			fen:       "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
			stalemate: true,
			hasLegal:  false,
		},
		{
			name:     "starting position has legal moves",
			fen:      "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			hasLegal: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN(%q): %v", tc.fen, err)
			}
			pos.UpdateCheckers()

			if got := pos.IsCheckmate(); got != tc.checkmate {
				t.Errorf("IsCheckmate() = %v, want %v", got, tc.checkmate)
			}
			if got := pos.IsStalemate(); got != tc.stalemate {
				t.Errorf("IsStalemate() = %v, want %v", got, tc.stalemate)
			}
			if got := pos.HasLegalMoves(); got != tc.hasLegal {
				t.Errorf("HasLegalMoves() = %v, want %v", got, tc.hasLegal)
			}
		})
	}
}
