package drag

import "math"

// Grid maps pixel positions on a rectangular board to cells.
type Grid struct {
	Width, Height float64
	Rows, Cols    int
}

// CellWidth returns the pixel width of one cell.
func (g Grid) CellWidth() float64 {
	return g.Width / float64(g.Cols)
}

// CellHeight returns the pixel height of one cell.
func (g Grid) CellHeight() float64 {
	return g.Height / float64(g.Rows)
}

// Bounds returns the rectangle covering the grid.
func (g Grid) Bounds() Rect {
	return Rect{Width: g.Width, Height: g.Height}
}

// CellAt returns the cell nearest to an element whose top-left corner is at
// p. Positions past the edges snap to the border cells.
func (g Grid) CellAt(p Point) (row, col int) {
	row = clampIndex(math.Round(p.Y/g.CellHeight()), g.Rows)
	col = clampIndex(math.Round(p.X/g.CellWidth()), g.Cols)
	return row, col
}

// AlignCenter returns the top-left position that centres an element of the
// given size in cell (row, col).
func (g Grid) AlignCenter(row, col int, size Size) Point {
	cw, ch := g.CellWidth(), g.CellHeight()
	return Point{
		X: cw*float64(col) + (cw-size.Width)/2,
		Y: ch*float64(row) + (ch-size.Height)/2,
	}
}

func clampIndex(v float64, n int) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > float64(n-1) {
		return n - 1
	}
	return int(v)
}
