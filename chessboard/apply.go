package chessboard

// ApplyMove returns a copy of b with the piece on from moved to to. Whatever
// stood on to is discarded. The move is not validated; callers check
// IsLegalMove first. b itself is never modified.
func ApplyMove(b Board, from, to Square) Board {
	next := b.Clone()
	mover, ok := b.At(from)
	if !ok || !to.InBounds() {
		return next
	}
	next.Clear(from)
	next.Set(to, mover)
	return next
}

// Captured returns the piece ApplyMove(b, from, to) would discard.
func Captured(b Board, from, to Square) (Piece, bool) {
	if from == to {
		return Piece{}, false
	}
	return b.At(to)
}
