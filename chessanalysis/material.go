package chessanalysis

import (
	"log/slog"
	"math"

	"github.com/walterschell/dragboard/chessboard"
)

var log = slog.Default().With("package", "chessanalysis")

// Piece values in centipawns. The king is worth nothing as material; taking
// it is classified separately.
var defaultPieceValues = map[chessboard.Kind]int{
	chessboard.Pawn:   100,
	chessboard.Knight: 300,
	chessboard.Bishop: 300,
	chessboard.Rook:   500,
	chessboard.Queen:  900,
	chessboard.King:   0,
}

// Material returns the material balance of b in centipawns, positive when
// White is ahead.
func Material(b chessboard.Board) int {
	return material(b, defaultPieceValues)
}

func material(b chessboard.Board, values map[chessboard.Kind]int) int {
	total := 0
	b.Each(func(_ chessboard.Square, p chessboard.Piece) {
		if p.Side == chessboard.White {
			total += values[p.Kind]
		} else {
			total -= values[p.Kind]
		}
	})
	return total
}

// attackers returns the squares of every piece of side that could legally
// move onto target.
func attackers(b chessboard.Board, target chessboard.Square, side chessboard.Side) []chessboard.Square {
	var result []chessboard.Square
	b.Each(func(s chessboard.Square, p chessboard.Piece) {
		if p.Side == side && chessboard.IsLegalMove(b, s, target) {
			result = append(result, s)
		}
	})
	return result
}

// defended reports whether a piece of side could recapture on s. The square
// is probed with an enemy pawn so that pawn diagonals count.
func defended(b chessboard.Board, s chessboard.Square, side chessboard.Side) bool {
	probe := b.Clone()
	probe.Set(s, chessboard.Piece{Kind: chessboard.Pawn, Side: side.Opposite()})
	return len(attackers(probe, s, side)) > 0
}

// exposure is the material the mover stands to lose on s after the move.
func exposure(after chessboard.Board, s chessboard.Square, mover chessboard.Piece, values map[chessboard.Kind]int) int {
	threats := attackers(after, s, mover.Side.Opposite())
	if len(threats) == 0 {
		return 0
	}
	if !defended(after, s, mover.Side) {
		return values[mover.Kind]
	}
	cheapest := math.MaxInt
	for _, t := range threats {
		p, _ := after.At(t)
		cheapest = min(cheapest, values[p.Kind])
	}
	return max(0, values[mover.Kind]-cheapest)
}

// calculateWinningProbability converts a centipawn balance to a winning
// probability using a logistic function
func calculateWinningProbability(score float64) float64 {
	return 1.0 / (1.0 + math.Exp(-score/100.0))
}
