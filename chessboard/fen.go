package chessboard

import (
	"fmt"
	"strings"

	chess "github.com/corentings/chess/v2"
)

// chessPieces maps wire codes to chess library pieces.
var chessPieces = [numSides * numKinds]chess.Piece{
	chess.WhitePawn, chess.WhiteRook, chess.WhiteKnight, chess.WhiteBishop, chess.WhiteQueen, chess.WhiteKing,
	chess.BlackPawn, chess.BlackRook, chess.BlackKnight, chess.BlackBishop, chess.BlackQueen, chess.BlackKing,
}

func fromChessPiece(cp chess.Piece) (Piece, bool) {
	for code, candidate := range chessPieces {
		if candidate == cp {
			return PieceFromCode(code)
		}
	}
	return Piece{}, false
}

// toChessSquare maps a square to the chess library's square; row 0 is rank 8.
func toChessSquare(s Square) chess.Square {
	return chess.NewSquare(chess.File(s.Col), chess.Rank(Size-1-s.Row))
}

func fromChessSquare(sq chess.Square) Square {
	return Sq(Size-1-int(sq.Rank()), int(sq.File()))
}

// ChessBoard converts the board to a github.com/corentings/chess board.
func (b Board) ChessBoard() *chess.Board {
	m := make(map[chess.Square]chess.Piece, b.Count())
	b.Each(func(s Square, p Piece) {
		m[toChessSquare(s)] = chessPieces[p.Code()]
	})
	return chess.NewBoard(m)
}

// FEN returns the board field of a FEN record, e.g.
// rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR for the initial layout.
func (b Board) FEN() string {
	return b.ChessBoard().String()
}

// ParseFEN reads a FEN board field. A full FEN record is accepted and only its
// first field is used.
func ParseFEN(fen string) (Board, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return Board{}, fmt.Errorf("%w: empty string", ErrInvalidFEN)
	}

	var cb chess.Board
	if err := cb.UnmarshalText([]byte(fields[0])); err != nil {
		return Board{}, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}

	var b Board
	for sq, cp := range cb.SquareMap() {
		p, ok := fromChessPiece(cp)
		if !ok {
			return Board{}, fmt.Errorf("%w: unknown piece on %s", ErrInvalidFEN, sq)
		}
		b.Set(fromChessSquare(sq), p)
	}
	return b, nil
}
