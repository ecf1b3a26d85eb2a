// Package table owns the shared board and turns drag gestures into legality
// feedback and committed moves.
package table

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/walterschell/dragboard/chessboard"
	"github.com/walterschell/dragboard/drag"
)

var log = slog.Default().With("package", "table")

var (
	ErrNoPiece        = errors.New("no piece on square")
	ErrDragInProgress = errors.New("another drag is in progress")
	ErrNoDrag         = errors.New("no drag in progress")
	ErrIllegalMove    = errors.New("illegal move")
)

// Config holds the board geometry and feedback colours.
type Config struct {
	BoardPixels  float64
	PiecePixels  float64
	LegalColor   string
	IllegalColor string
	Initial      chessboard.Board
}

var defaultConfig = Config{
	BoardPixels:  380,
	PiecePixels:  40,
	LegalColor:   "gold",
	IllegalColor: "crimson",
	Initial:      chessboard.InitialBoard(),
}

// Option configures a Table.
type Option func(*Config)

// WithBoardPixels sets the side length of the board in pixels.
func WithBoardPixels(px float64) Option {
	return func(c *Config) {
		c.BoardPixels = px
	}
}

// WithPiecePixels sets the side length of a piece in pixels.
func WithPiecePixels(px float64) Option {
	return func(c *Config) {
		c.PiecePixels = px
	}
}

// WithHighlightColors sets the CSS colours shown under a dragged piece.
func WithHighlightColors(legal, illegal string) Option {
	return func(c *Config) {
		c.LegalColor = legal
		c.IllegalColor = illegal
	}
}

// WithInitialBoard sets the layout used at start and on Reset.
func WithInitialBoard(b chessboard.Board) Option {
	return func(c *Config) {
		c.Initial = b
	}
}

// Move describes a committed move.
type Move struct {
	From     chessboard.Square `json:"from"`
	To       chessboard.Square `json:"to"`
	Piece    int               `json:"piece"`
	Captured int               `json:"captured"`
}

// Snapshot is a published board state.
type Snapshot struct {
	Board   chessboard.Board `json:"board"`
	FEN     string           `json:"fen"`
	Version uint64           `json:"version"`
	Last    *Move            `json:"last,omitempty"`
}

// Table serializes gestures on a single board.
type Table struct {
	mu          sync.Mutex
	cfg         Config
	grid        drag.Grid
	board       chessboard.Board
	version     uint64
	last        *Move
	history     []Move
	active      *gesture
	subscribers map[int]func(Snapshot)
	nextSub     int

	// pending holds committed snapshots not yet delivered, oldest first.
	// Only the holder of delivering drains it.
	pending    []Snapshot
	delivering sync.Mutex
}

// New returns a table holding the initial layout.
func New(opts ...Option) (*Table, error) {
	cfg := defaultConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.BoardPixels <= 0 {
		return nil, fmt.Errorf("board size must be positive, got %v", cfg.BoardPixels)
	}
	if cfg.PiecePixels <= 0 || cfg.PiecePixels > cfg.BoardPixels/chessboard.Size {
		return nil, fmt.Errorf("piece size %v does not fit a %v px cell", cfg.PiecePixels, cfg.BoardPixels/chessboard.Size)
	}
	return &Table{
		cfg:         cfg,
		grid:        drag.Grid{Width: cfg.BoardPixels, Height: cfg.BoardPixels, Rows: chessboard.Size, Cols: chessboard.Size},
		board:       cfg.Initial,
		subscribers: make(map[int]func(Snapshot)),
	}, nil
}

// Config returns the table configuration.
func (t *Table) Config() Config {
	return t.cfg
}

// Grid returns the pixel geometry of the board.
func (t *Table) Grid() drag.Grid {
	return t.grid
}

// PieceSize returns the pixel size of a piece.
func (t *Table) PieceSize() drag.Size {
	return drag.Size{Width: t.cfg.PiecePixels, Height: t.cfg.PiecePixels}
}

// Align returns the top-left pixel position of a piece resting on s.
func (t *Table) Align(s chessboard.Square) drag.Point {
	return t.grid.AlignCenter(s.Row, s.Col, t.PieceSize())
}

// Snapshot returns the current board state.
func (t *Table) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Table) snapshotLocked() Snapshot {
	return Snapshot{Board: t.board, FEN: t.board.FEN(), Version: t.version, Last: t.last}
}

// Evaluate checks a move against the current board without changing it.
func (t *Table) Evaluate(from, to chessboard.Square) chessboard.Verdict {
	t.mu.Lock()
	defer t.mu.Unlock()
	return chessboard.Evaluate(t.board, from, to)
}

// TryMove applies the move if it is legal. It fails with ErrDragInProgress
// while a piece is being dragged.
func (t *Table) TryMove(from, to chessboard.Square) (Snapshot, chessboard.Verdict, error) {
	t.mu.Lock()
	if t.active != nil {
		snap := t.snapshotLocked()
		t.mu.Unlock()
		return snap, chessboard.Verdict{}, ErrDragInProgress
	}
	verdict := chessboard.Evaluate(t.board, from, to)
	if !verdict.Legal {
		snap := t.snapshotLocked()
		t.mu.Unlock()
		return snap, verdict, fmt.Errorf("%w: %s to %s: %s", ErrIllegalMove, from, to, verdict.Reason)
	}
	snap := t.commitLocked(from, to)
	t.mu.Unlock()

	t.deliver()
	return snap, verdict, nil
}

// Reset restores the initial layout and drops any drag in flight.
func (t *Table) Reset() Snapshot {
	t.mu.Lock()
	t.board = t.cfg.Initial
	t.version++
	t.last = nil
	t.history = nil
	t.active = nil
	snap := t.snapshotLocked()
	t.pending = append(t.pending, snap)
	t.mu.Unlock()

	log.Info("board reset", "version", snap.Version)
	t.deliver()
	return snap
}

// History returns the layout the board started from and every move committed
// since, oldest first.
func (t *Table) History() (chessboard.Board, []Move) {
	t.mu.Lock()
	defer t.mu.Unlock()
	moves := make([]Move, len(t.history))
	copy(moves, t.history)
	return t.cfg.Initial, moves
}

// Subscribe registers fn to receive every new board, in version order and
// one at a time. The returned function removes the subscription.
func (t *Table) Subscribe(fn func(Snapshot)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextSub
	t.nextSub++
	t.subscribers[id] = fn
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subscribers, id)
	}
}

// commitLocked replaces the board with the result of the move.
func (t *Table) commitLocked(from, to chessboard.Square) Snapshot {
	mover, _ := t.board.At(from)
	move := &Move{From: from, To: to, Piece: mover.Code(), Captured: chessboard.EmptyCode}
	if captured, ok := chessboard.Captured(t.board, from, to); ok {
		move.Captured = captured.Code()
		log.Info("capture", "piece", mover, "captured", captured, "square", to)
	}

	t.board = chessboard.ApplyMove(t.board, from, to)
	t.version++
	t.last = move
	t.history = append(t.history, *move)
	log.Info("move committed", "piece", mover, "from", from, "to", to, "version", t.version)
	snap := t.snapshotLocked()
	t.pending = append(t.pending, snap)
	return snap
}

func (t *Table) subscribersLocked() []func(Snapshot) {
	subs := make([]func(Snapshot), 0, len(t.subscribers))
	for _, fn := range t.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

// deliver hands pending snapshots to subscribers. If another goroutine is
// already delivering it returns at once and that goroutine picks them up.
func (t *Table) deliver() {
	for {
		if !t.delivering.TryLock() {
			return
		}
		for {
			t.mu.Lock()
			if len(t.pending) == 0 {
				t.mu.Unlock()
				break
			}
			snap := t.pending[0]
			t.pending = t.pending[1:]
			subs := t.subscribersLocked()
			t.mu.Unlock()

			for _, fn := range subs {
				fn(snap)
			}
		}
		t.delivering.Unlock()

		// A commit may have queued between the last check and Unlock.
		t.mu.Lock()
		idle := len(t.pending) == 0
		t.mu.Unlock()
		if idle {
			return
		}
	}
}
