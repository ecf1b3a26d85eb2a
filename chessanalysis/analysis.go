// Package chessanalysis reviews a sequence of committed moves by material.
package chessanalysis

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/walterschell/dragboard/chessboard"
)

var ErrIllegalMove = errors.New("illegal move in sequence")

type MoveClassification int

const (
	Neutral MoveClassification = iota
	Blunder
	Questionable
	Good
	Excellent
	Winning
)

func (c MoveClassification) String() string {
	names := []string{"Neutral", "Blunder", "Questionable", "Good", "Excellent", "Winning"}
	if c >= 0 && int(c) < len(names) {
		return names[c]
	}
	return "Unknown"
}

// Chess annotation symbols for move classifications
var classificationAnnotations = map[MoveClassification]string{
	Blunder:      "??",
	Questionable: "?",
	Neutral:      "",
	Good:         "!",
	Excellent:    "!!",
	Winning:      "⩲",
}

// Move is one step of a sequence.
type Move struct {
	From chessboard.Square
	To   chessboard.Square
}

type MoveAnalysis struct {
	MoveNumber          int
	Color               string
	MoveText            string
	UCI                 string
	Score               float64
	CentipawnDifference float64
	WinningProbability  float64
	Hanging             bool
	Classification      MoveClassification
}

func (m *MoveAnalysis) String() string {
	return fmt.Sprintf("Move %d: %s (Score: %.2f, Centipawn Difference: %.2f, Classification: %s, Hanging: %t)",
		m.MoveNumber, m.MoveText, m.Score, m.CentipawnDifference, m.Classification, m.Hanging)
}

type moveAnalysisJSON struct {
	MoveNumber           int     `json:"moveNumber"`
	Color                string  `json:"color"`
	MoveText             string  `json:"moveText"`
	UCI                  string  `json:"uci"`
	Score                float64 `json:"score"`
	CentipawnDifference  float64 `json:"centipawnDifference"`
	WinningProbability   float64 `json:"winningProbability"`
	Hanging              bool    `json:"hanging"`
	Classification       string  `json:"classification"`
	ClassificationSymbol string  `json:"classificationSymbol"`
}

// MarshalJSON writes the classification as text with its annotation symbol.
func (m *MoveAnalysis) MarshalJSON() ([]byte, error) {
	return json.Marshal(moveAnalysisJSON{
		MoveNumber:           m.MoveNumber,
		Color:                m.Color,
		MoveText:             m.MoveText,
		UCI:                  m.UCI,
		Score:                m.Score,
		CentipawnDifference:  m.CentipawnDifference,
		WinningProbability:   m.WinningProbability,
		Hanging:              m.Hanging,
		Classification:       m.Classification.String(),
		ClassificationSymbol: classificationAnnotations[m.Classification],
	})
}

// classifyMove grades a move by the material it wins net of what it leaves
// hanging.
func classifyMove(net int, tookKing bool) MoveClassification {
	switch {
	case tookKing:
		return Winning
	case net <= -300:
		return Blunder
	case net < 0:
		return Questionable
	case net >= 300:
		return Excellent
	case net > 0:
		return Good
	default:
		return Neutral
	}
}

// moveText writes a short algebraic form: "Nf3", "Nbd2", "Bxe5", "e4",
// "exd5". When another piece of the same kind could also reach to, the
// origin file, rank or both are added.
func moveText(b chessboard.Board, mover chessboard.Piece, from, to chessboard.Square, capture bool) string {
	var text []byte
	switch {
	case mover.Kind != chessboard.Pawn:
		text = append(text, mover.Kind.Letter())
		text = append(text, disambiguation(b, mover, from, to)...)
	case capture:
		text = append(text, from.Name()[0])
	}
	if capture {
		text = append(text, 'x')
	}
	return string(text) + to.Name()
}

func disambiguation(b chessboard.Board, mover chessboard.Piece, from, to chessboard.Square) string {
	rivals, sameFile, sameRank := false, false, false
	b.Each(func(s chessboard.Square, p chessboard.Piece) {
		if s == from || p != mover || !chessboard.IsLegalMove(b, s, to) {
			return
		}
		rivals = true
		sameFile = sameFile || s.Col == from.Col
		sameRank = sameRank || s.Row == from.Row
	})
	name := from.Name()
	switch {
	case !rivals:
		return ""
	case !sameFile:
		return name[:1]
	case !sameRank:
		return name[1:]
	default:
		return name
	}
}

type AnalyzeOptions struct {
	PieceValues map[chessboard.Kind]int
}

type AnalyzeOption func(*AnalyzeOptions)

// WithPieceValue overrides the centipawn value of a kind.
func WithPieceValue(kind chessboard.Kind, centipawns int) AnalyzeOption {
	return func(opts *AnalyzeOptions) {
		opts.PieceValues[kind] = centipawns
	}
}

func defaultAnalyzeOptions() AnalyzeOptions {
	values := make(map[chessboard.Kind]int, len(defaultPieceValues))
	for k, v := range defaultPieceValues {
		values[k] = v
	}
	return AnalyzeOptions{PieceValues: values}
}

// analyzeMove reviews one move on b and returns the board after it.
func analyzeMove(b chessboard.Board, i int, m Move, opts AnalyzeOptions) (*MoveAnalysis, chessboard.Board, error) {
	verdict := chessboard.Evaluate(b, m.From, m.To)
	if !verdict.Legal {
		return nil, b, fmt.Errorf("move %d %s%s: %w: %s", i+1, m.From.Name(), m.To.Name(), ErrIllegalMove, verdict.Reason)
	}
	mover, _ := b.At(m.From)
	captured, capture := chessboard.Captured(b, m.From, m.To)
	after := chessboard.ApplyMove(b, m.From, m.To)

	gain := 0
	if capture {
		gain = opts.PieceValues[captured.Kind]
	}
	loss := exposure(after, m.To, mover, opts.PieceValues)
	net := gain - loss

	balance := material(after, opts.PieceValues)
	own := balance
	if mover.Side == chessboard.Black {
		own = -balance
	}

	analysis := &MoveAnalysis{
		MoveNumber:          i + 1,
		Color:               mover.Side.String(),
		MoveText:            moveText(b, mover, m.From, m.To, capture),
		UCI:                 m.From.Name() + m.To.Name(),
		Score:               float64(balance) / 100,
		CentipawnDifference: float64(net),
		WinningProbability:  calculateWinningProbability(float64(own)),
		Hanging:             loss > 0,
		Classification:      classifyMove(net, capture && captured.Kind == chessboard.King),
	}
	return analysis, after, nil
}

// AnalyzeMovesStreaming replays moves from start, sending one review per move
// through a channel. Replay stops at the first illegal move.
func AnalyzeMovesStreaming(start chessboard.Board, moves []Move, opts ...AnalyzeOption) (<-chan *MoveAnalysis, <-chan error) {
	analysisOpts := defaultAnalyzeOptions()
	for _, opt := range opts {
		opt(&analysisOpts)
	}

	results := make(chan *MoveAnalysis)
	errc := make(chan error, 1)

	go func() {
		defer close(results)
		defer close(errc)

		board := start
		for i, m := range moves {
			analysis, after, err := analyzeMove(board, i, m, analysisOpts)
			if err != nil {
				log.Warn("Error replaying move", "move", i+1, "error", err)
				errc <- err
				return
			}
			results <- analysis
			board = after
		}
	}()

	return results, errc
}

func AnalyzeMoves(start chessboard.Board, moves []Move, opts ...AnalyzeOption) ([]MoveAnalysis, error) {
	movesChan, errChan := AnalyzeMovesStreaming(start, moves, opts...)

	results := make([]MoveAnalysis, 0, len(moves))
	for move := range movesChan {
		results = append(results, *move)
	}

	if err := <-errChan; err != nil {
		return nil, err
	}

	log.Debug("Analysis complete", "moves", len(results))
	return results, nil
}
