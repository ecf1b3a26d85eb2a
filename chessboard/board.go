package chessboard

import (
	"encoding/json"
	"fmt"
)

// Size is the number of rows and columns of the board.
const Size = 8

// Square addresses a cell. Row 0 is the top of the board (Black's back rank),
// column 0 is the left edge.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Sq is shorthand for Square{Row: row, Col: col}.
func Sq(row, col int) Square {
	return Square{Row: row, Col: col}
}

// InBounds reports whether the square lies on the board.
func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < Size && s.Col >= 0 && s.Col < Size
}

func (s Square) index() int {
	return s.Row*Size + s.Col
}

// Name returns the algebraic name of the square, e.g. "e2" for (6,4).
// Out of range squares are printed as coordinates.
func (s Square) Name() string {
	if !s.InBounds() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return string([]byte{byte('a' + s.Col), byte('0' + Size - s.Row)})
}

func (s Square) String() string {
	return s.Name()
}

// cell holds code+1 so the zero value is an empty cell.
type cell uint8

const emptyCell cell = 0

func cellOf(p Piece) cell {
	return cell(p.Code() + 1)
}

func (c cell) piece() (Piece, bool) {
	if c == emptyCell {
		return Piece{}, false
	}
	return PieceFromCode(int(c) - 1)
}

// Board is an 8x8 grid stored as a flat row-major array. Board is a value
// type: assigning or passing it copies every cell, so two boards never share
// state. The zero value is an empty board.
type Board struct {
	cells [Size * Size]cell
}

// NewBoard returns an empty board.
func NewBoard() Board {
	return Board{}
}

var backRank = [Size]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// InitialBoard returns the starting layout: Black on rows 0 and 1, White on
// rows 6 and 7.
func InitialBoard() Board {
	var b Board
	for _, side := range []Side{White, Black} {
		for col := 0; col < Size; col++ {
			b.Set(Sq(side.BackRank(), col), Piece{Kind: backRank[col], Side: side})
			b.Set(Sq(side.PawnRank(), col), Piece{Kind: Pawn, Side: side})
		}
	}
	return b
}

// PieceAt returns the piece at (row, col). It returns false for empty cells
// and for coordinates off the board.
func (b Board) PieceAt(row, col int) (Piece, bool) {
	return b.At(Sq(row, col))
}

// At returns the piece on the square, if any.
func (b Board) At(s Square) (Piece, bool) {
	if !s.InBounds() {
		return Piece{}, false
	}
	return b.cells[s.index()].piece()
}

func (b Board) occupied(s Square) bool {
	return b.cells[s.index()] != emptyCell
}

// Set places a piece on the square. Off-board squares are ignored.
func (b *Board) Set(s Square, p Piece) {
	if s.InBounds() {
		b.cells[s.index()] = cellOf(p)
	}
}

// Clear empties the square. Off-board squares are ignored.
func (b *Board) Clear(s Square) {
	if s.InBounds() {
		b.cells[s.index()] = emptyCell
	}
}

// Clone returns an independent copy of the board.
func (b Board) Clone() Board {
	return b
}

// Count returns the number of pieces on the board.
func (b Board) Count() int {
	n := 0
	for _, c := range b.cells {
		if c != emptyCell {
			n++
		}
	}
	return n
}

// Each calls fn for every occupied square in row-major order.
func (b Board) Each(fn func(Square, Piece)) {
	for i, c := range b.cells {
		if p, ok := c.piece(); ok {
			fn(Sq(i/Size, i%Size), p)
		}
	}
}

// Codes returns the board as rows of wire codes (-1 empty, 0..11 pieces).
func (b Board) Codes() [][]int {
	rows := make([][]int, Size)
	for row := range rows {
		rows[row] = make([]int, Size)
		for col := range rows[row] {
			rows[row][col] = EmptyCode
			if p, ok := b.PieceAt(row, col); ok {
				rows[row][col] = p.Code()
			}
		}
	}
	return rows
}

// FromCodes builds a board from rows of wire codes.
func FromCodes(rows [][]int) (Board, error) {
	var b Board
	if len(rows) != Size {
		return b, fmt.Errorf("%w: %d rows, want %d", ErrInvalidShape, len(rows), Size)
	}
	for row, cols := range rows {
		if len(cols) != Size {
			return b, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidShape, row, len(cols), Size)
		}
		for col, code := range cols {
			if code == EmptyCode {
				continue
			}
			p, ok := PieceFromCode(code)
			if !ok {
				return b, fmt.Errorf("%w: %d at %s", ErrInvalidCode, code, Sq(row, col))
			}
			b.Set(Sq(row, col), p)
		}
	}
	return b, nil
}

// MarshalJSON encodes the board as an 8x8 array of wire codes.
func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Codes())
}

// UnmarshalJSON decodes an 8x8 array of wire codes.
func (b *Board) UnmarshalJSON(data []byte) error {
	var rows [][]int
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	decoded, err := FromCodes(rows)
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}
