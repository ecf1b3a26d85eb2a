package chessboard

import "testing"

func TestApplyMove_Capture(t *testing.T) {
	t.Parallel()
	b := boardWith(t, map[Square]Piece{
		Sq(7, 0): whiteRook,
		Sq(3, 0): blackPawn,
		Sq(0, 4): whiteKing,
	})
	before := b.Clone()
	from, to := Sq(7, 0), Sq(3, 0)

	if !IsLegalMove(b, from, to) {
		t.Fatalf("IsLegalMove(rook a1 x a5) = false, want true")
	}
	captured, ok := Captured(b, from, to)
	if !ok || captured != blackPawn {
		t.Errorf("Captured() = %v, %v, want %v", captured, ok, blackPawn)
	}

	next := ApplyMove(b, from, to)

	if p, ok := next.At(from); ok {
		t.Errorf("ApplyMove() origin holds %v, want empty", p)
	}
	if p, ok := next.At(to); !ok || p != whiteRook {
		t.Errorf("ApplyMove() destination = %v, %v, want %v", p, ok, whiteRook)
	}
	next.Each(func(s Square, p Piece) {
		if p == blackPawn {
			t.Errorf("ApplyMove() captured pawn still on %v", s)
		}
	})
	if got := next.Count(); got != 2 {
		t.Errorf("ApplyMove().Count() = %d, want 2", got)
	}
	if b != before {
		t.Errorf("ApplyMove() modified its input board")
	}
}

func TestApplyMove_Relocation(t *testing.T) {
	t.Parallel()
	b := InitialBoard()
	next := ApplyMove(b, Sq(7, 6), Sq(5, 5))

	if _, ok := Captured(b, Sq(7, 6), Sq(5, 5)); ok {
		t.Errorf("Captured(quiet move) ok = true, want false")
	}
	if p, ok := next.At(Sq(5, 5)); !ok || p != whiteKnight {
		t.Errorf("ApplyMove(g1 -> f3) destination = %v, %v, want %v", p, ok, whiteKnight)
	}
	if got := next.Count(); got != b.Count() {
		t.Errorf("ApplyMove(quiet).Count() = %d, want %d", got, b.Count())
	}
}

func TestApplyMove_Degenerate(t *testing.T) {
	t.Parallel()
	b := InitialBoard()
	tests := []struct {
		name     string
		from, to Square
	}{
		{"empty origin", Sq(4, 4), Sq(3, 4)},
		{"destination off board", Sq(6, 0), Sq(8, 0)},
		{"origin off board", Sq(-1, 0), Sq(3, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if next := ApplyMove(b, tt.from, tt.to); next != b {
				t.Errorf("ApplyMove(%v -> %v) changed the board", tt.from, tt.to)
			}
		})
	}
}
