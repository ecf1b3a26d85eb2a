// Package chessboard provides the board model, the move legality engine and
// move application for a drag-and-drop chessboard.
package chessboard

// Side is one of the two players.
type Side int

const (
	White Side = iota
	Black
)

const numSides = 2

// String returns the string representation of a side.
func (s Side) String() string {
	if s == Black {
		return "Black"
	}
	return "White"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == White {
		return Black
	}
	return White
}

// Forward returns the row delta of a pawn advance: White moves up the
// board (decreasing row), Black moves down.
func (s Side) Forward() int {
	if s == White {
		return -1
	}
	return 1
}

// PawnRank returns the row the side's pawns start on.
func (s Side) PawnRank() int {
	if s == White {
		return Size - 2
	}
	return 1
}

// BackRank returns the row holding the side's pieces at the start.
func (s Side) BackRank() int {
	if s == White {
		return Size - 1
	}
	return 0
}

// advances reports whether moving from row fromRow to toRow is a step in the
// side's forward direction.
func (s Side) advances(fromRow, toRow int) bool {
	if s == White {
		return toRow < fromRow
	}
	return toRow > fromRow
}

// Kind is the rule class of a piece. The order matches the wire encoding.
type Kind int

const (
	Pawn Kind = iota
	Rook
	Knight
	Bishop
	Queen
	King
)

const numKinds = 6

// String returns the string representation of a kind.
func (k Kind) String() string {
	names := []string{"Pawn", "Rook", "Knight", "Bishop", "Queen", "King"}
	if k >= 0 && int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// Letter returns the upper case letter of a kind.
func (k Kind) Letter() byte {
	letters := []byte{'P', 'R', 'N', 'B', 'Q', 'K'}
	if k >= 0 && int(k) < len(letters) {
		return letters[k]
	}
	return '?'
}

// Piece is a kind owned by a side.
type Piece struct {
	Kind Kind
	Side Side
}

// EmptyCode is the wire code of an empty cell.
const EmptyCode = -1

// Code returns the wire code of the piece: side*6 + kind, so white pieces
// are 0..5 and black pieces 6..11.
func (p Piece) Code() int {
	return int(p.Side)*numKinds + int(p.Kind)
}

// PieceFromCode decodes a wire code. It returns false for EmptyCode and for
// anything outside 0..11.
func PieceFromCode(code int) (Piece, bool) {
	if code < 0 || code >= numSides*numKinds {
		return Piece{}, false
	}
	return Piece{Kind: Kind(code % numKinds), Side: Side(code / numKinds)}, true
}

var glyphs = []rune{
	'♙', '♖', '♘', '♗', '♕', '♔',
	'♟', '♜', '♞', '♝', '♛', '♚',
}

// Glyph returns the Unicode chess symbol of the piece.
func (p Piece) Glyph() rune {
	return glyphs[p.Code()]
}

// String returns e.g. "White Knight".
func (p Piece) String() string {
	return p.Side.String() + " " + p.Kind.String()
}
