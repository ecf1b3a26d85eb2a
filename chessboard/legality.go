package chessboard

import "fmt"

// Reason explains a verdict.
type Reason int

const (
	Legal Reason = iota
	OutOfBounds
	EmptyOrigin
	SelfMove
	FriendlyCapture
	BadGeometry
	Blocked
)

func (r Reason) String() string {
	names := []string{"legal", "out of bounds", "empty origin", "self move", "friendly capture", "bad geometry", "blocked"}
	if r >= 0 && int(r) < len(names) {
		return names[r]
	}
	return "unknown"
}

// MarshalText encodes the reason as its string form.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a reason from its string form.
func (r *Reason) UnmarshalText(text []byte) error {
	for candidate := Legal; candidate <= Blocked; candidate++ {
		if candidate.String() == string(text) {
			*r = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown reason %q", text)
}

// Verdict is the outcome of evaluating a move request.
type Verdict struct {
	Legal  bool   `json:"legal"`
	Reason Reason `json:"reason"`
	// Blockers lists the occupied cells strictly between origin and
	// destination. Only set when Reason is Blocked.
	Blockers []Square `json:"blockers,omitempty"`
}

// IsLegalMove reports whether the piece on from may move to to under the
// simplified rules: no check detection, castling, en passant or promotion.
// Malformed requests are simply illegal.
func IsLegalMove(b Board, from, to Square) bool {
	return check(b, from, to) == Legal
}

// Evaluate is IsLegalMove with the reason and, for blocked slides, the
// obstructing cells.
func Evaluate(b Board, from, to Square) Verdict {
	reason := check(b, from, to)
	v := Verdict{Legal: reason == Legal, Reason: reason}
	if reason == Blocked {
		v.Blockers = obstructions(b, from, to)
	}
	return v
}

// LegalDestinations returns every square the piece on from may move to, in
// row-major order.
func LegalDestinations(b Board, from Square) []Square {
	var out []Square
	if _, ok := b.At(from); !ok {
		return out
	}
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if to := Sq(row, col); check(b, from, to) == Legal {
				out = append(out, to)
			}
		}
	}
	return out
}

func check(b Board, from, to Square) Reason {
	if !from.InBounds() || !to.InBounds() {
		return OutOfBounds
	}
	mover, ok := b.At(from)
	if !ok {
		return EmptyOrigin
	}
	if from == to {
		return SelfMove
	}
	target, capture := b.At(to)
	if capture && target.Side == mover.Side {
		return FriendlyCapture
	}

	ok, slides := pattern(mover, from, to, capture)
	if !ok {
		return BadGeometry
	}
	if slides && !pathClear(b, from, to) {
		return Blocked
	}
	return Legal
}

// pattern reports whether to lies on the movement pattern of p from from, and
// whether the move slides, in which case every cell in between must be empty.
func pattern(p Piece, from, to Square, capture bool) (ok, slides bool) {
	dc := abs(from.Col - to.Col)
	dr := abs(from.Row - to.Row)
	diagonal := dc == dr && dc > 0
	straight := (dc == 0) != (dr == 0)

	switch p.Kind {
	case Knight:
		return (dc == 1 && dr == 2) || (dc == 2 && dr == 1), false

	case Bishop:
		return diagonal, true

	case Rook:
		return straight, true

	case Queen:
		return diagonal || straight, true

	case King:
		return (diagonal || straight) && dc <= 1 && dr <= 1, true

	case Pawn:
		if !p.Side.advances(from.Row, to.Row) {
			return false, false
		}
		if capture {
			return dc == 1 && dr == 1, false
		}
		// The double step keys off the starting rank, not a moved flag.
		return dc == 0 && (dr == 1 || (dr == 2 && from.Row == p.Side.PawnRank())), true
	}

	return false, false
}

// pathClear reports whether every cell strictly between from and to is empty.
// from and to must lie on a common row, column or diagonal.
func pathClear(b Board, from, to Square) bool {
	empty := true
	walk(from, to, func(s Square) bool {
		if b.occupied(s) {
			empty = false
		}
		return empty
	})
	return empty
}

// obstructions returns the occupied cells strictly between from and to. It
// returns nil when the squares do not share a line.
func obstructions(b Board, from, to Square) []Square {
	if !aligned(from, to) {
		return nil
	}
	var out []Square
	walk(from, to, func(s Square) bool {
		if b.occupied(s) {
			out = append(out, s)
		}
		return true
	})
	return out
}

func aligned(from, to Square) bool {
	dc := abs(from.Col - to.Col)
	dr := abs(from.Row - to.Row)
	return dc == 0 || dr == 0 || dc == dr
}

// walk visits the cells strictly between from and to, stepping one unit in
// each axis, until fn returns false.
func walk(from, to Square, fn func(Square) bool) {
	rowDir := sign(to.Row - from.Row)
	colDir := sign(to.Col - from.Col)

	s := Sq(from.Row+rowDir, from.Col+colDir)
	for s != to && s.InBounds() {
		if !fn(s) {
			return
		}
		s = Sq(s.Row+rowDir, s.Col+colDir)
	}
}
