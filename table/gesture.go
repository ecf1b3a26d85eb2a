package table

import (
	"github.com/walterschell/dragboard/chessboard"
	"github.com/walterschell/dragboard/drag"
)

// gesture is one drag of one piece by one client.
type gesture struct {
	client    string
	origin    chessboard.Square
	piece     chessboard.Piece
	draggable *drag.Draggable
	session   *drag.Session

	// last is the cell the verdict was computed for.
	last      chessboard.Square
	evaluated bool
	verdict   chessboard.Verdict

	committed bool
	snapshot  Snapshot
}

// TouchResult is the reply to the start of a drag.
type TouchResult struct {
	Origin   chessboard.Square   `json:"origin"`
	Piece    int                 `json:"piece"`
	Position drag.Point          `json:"position"`
	Targets  []chessboard.Square `json:"targets"`
}

// Highlight is the live feedback shown while dragging.
type Highlight struct {
	Square   chessboard.Square   `json:"square"`
	Legal    bool                `json:"legal"`
	Reason   chessboard.Reason   `json:"reason"`
	Color    string              `json:"color"`
	Blockers []chessboard.Square `json:"blockers,omitempty"`
	Position drag.Point          `json:"position"`
}

// ReleaseResult is the outcome of a drop.
type ReleaseResult struct {
	Committed bool               `json:"committed"`
	Verdict   chessboard.Verdict `json:"verdict"`
	Position  drag.Point         `json:"position"`
	Snapshot  Snapshot           `json:"snapshot"`
}

// Touch starts dragging the piece on s for client. The pointer is the pixel
// position where the piece was grabbed.
func (t *Table) Touch(client string, s chessboard.Square, pointer drag.Point) (TouchResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active != nil && t.active.client != client {
		return TouchResult{}, ErrDragInProgress
	}
	p, ok := t.board.At(s)
	if !ok {
		return TouchResult{}, ErrNoPiece
	}

	g := &gesture{client: client, origin: s, piece: p}
	g.draggable = drag.New(t.PieceSize(),
		drag.WithBounds(t.grid.Bounds()),
		drag.OnMove(func(_ *drag.Session, proposed drag.Point) (drag.Point, bool) {
			t.follow(g, proposed)
			return drag.Point{}, false
		}),
		drag.OnRelease(func(_ *drag.Session, proposed drag.Point) (drag.Point, bool) {
			return t.settle(g, proposed), true
		}),
	)
	g.session = g.draggable.Touch(t.Align(s), pointer)
	t.active = g

	log.Debug("drag started", "client", client, "piece", p, "square", s)
	return TouchResult{
		Origin:   s,
		Piece:    p.Code(),
		Position: g.session.Position,
		Targets:  chessboard.LegalDestinations(t.board, s),
	}, nil
}

// Move follows the pointer and returns the highlight for the cell under the
// dragged piece. The board is never changed.
func (t *Table) Move(client string, pointer drag.Point) (Highlight, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	g := t.active
	if g == nil || g.client != client {
		return Highlight{}, ErrNoDrag
	}
	pos := g.draggable.Move(g.session, pointer)
	return Highlight{
		Square:   g.last,
		Legal:    g.verdict.Legal,
		Reason:   g.verdict.Reason,
		Color:    t.color(g.verdict.Legal),
		Blockers: g.verdict.Blockers,
		Position: pos,
	}, nil
}

// Release drops the piece at the pointer. A legal drop commits the move and
// publishes the new board; an illegal one returns the piece to its origin.
func (t *Table) Release(client string, pointer drag.Point) (ReleaseResult, error) {
	t.mu.Lock()
	g := t.active
	if g == nil || g.client != client {
		t.mu.Unlock()
		return ReleaseResult{}, ErrNoDrag
	}
	g.draggable.Move(g.session, pointer)
	pos := g.draggable.Release(g.session)
	t.active = nil
	result := ReleaseResult{
		Committed: g.committed,
		Verdict:   g.verdict,
		Position:  pos,
		Snapshot:  g.snapshot,
	}
	if !g.committed {
		result.Snapshot = t.snapshotLocked()
	}
	t.mu.Unlock()

	if g.committed {
		t.deliver()
	} else {
		log.Debug("drag reverted", "client", client, "piece", g.piece, "origin", g.origin, "reason", g.verdict.Reason)
	}
	return result, nil
}

// Cancel drops the client's drag, if any, without changing the board.
func (t *Table) Cancel(client string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active != nil && t.active.client == client {
		t.active = nil
	}
}

// follow re-evaluates the gesture when the piece enters another cell.
func (t *Table) follow(g *gesture, proposed drag.Point) {
	row, col := t.grid.CellAt(proposed)
	cell := chessboard.Sq(row, col)
	if g.evaluated && cell == g.last {
		return
	}
	g.last = cell
	g.evaluated = true
	g.verdict = chessboard.Evaluate(t.board, g.origin, cell)
}

// settle decides the drop. It runs with t.mu held.
func (t *Table) settle(g *gesture, proposed drag.Point) drag.Point {
	row, col := t.grid.CellAt(proposed)
	cell := chessboard.Sq(row, col)
	g.last = cell
	g.evaluated = true
	if p, ok := t.board.At(g.origin); !ok || p != g.piece {
		g.verdict = chessboard.Verdict{Reason: chessboard.EmptyOrigin}
		return t.Align(g.origin)
	}
	g.verdict = chessboard.Evaluate(t.board, g.origin, cell)
	if !g.verdict.Legal {
		return t.Align(g.origin)
	}
	g.committed = true
	g.snapshot = t.commitLocked(g.origin, cell)
	return t.Align(cell)
}

func (t *Table) color(legal bool) string {
	if legal {
		return t.cfg.LegalColor
	}
	return t.cfg.IllegalColor
}
