package chessboard

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	lightSquare = color.New(color.FgBlack, color.BgHiGreen)
	darkSquare  = color.New(color.FgBlack, color.BgGreen)
	coordinate  = color.New(color.Faint)
)

// Render writes the board to w as a checkered grid of glyphs with file and
// rank labels. Colours follow color.NoColor.
func Render(w io.Writer, b Board) error {
	for row := 0; row < Size; row++ {
		if _, err := coordinate.Fprintf(w, "%d ", Size-row); err != nil {
			return err
		}
		for col := 0; col < Size; col++ {
			glyph := ' '
			if p, ok := b.PieceAt(row, col); ok {
				glyph = p.Glyph()
			}
			square := lightSquare
			if (row+col)&1 == 1 {
				square = darkSquare
			}
			if _, err := square.Fprintf(w, " %c ", glyph); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	_, err := coordinate.Fprintln(w, "   a  b  c  d  e  f  g  h")
	return err
}
