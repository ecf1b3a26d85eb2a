package chessboard

import "errors"

// Sentinel errors returned by the board codecs. The legality engine itself
// never returns errors.
var (
	// ErrInvalidShape indicates a board encoding that is not 8x8.
	ErrInvalidShape = errors.New("invalid board shape")

	// ErrInvalidCode indicates a cell code outside -1..11.
	ErrInvalidCode = errors.New("invalid cell code")

	// ErrInvalidFEN indicates a malformed FEN board field.
	ErrInvalidFEN = errors.New("invalid FEN board")
)
