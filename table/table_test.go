package table

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/walterschell/dragboard/chessboard"
	"github.com/walterschell/dragboard/drag"
)

// grab is where the tests hold a piece: its centre.
var grab = drag.Point{X: 20, Y: 20}

func newTable(t *testing.T, opts ...Option) *Table {
	t.Helper()
	tbl, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return tbl
}

// pointerOver returns the pointer position that puts a held piece on s.
func pointerOver(tbl *Table, s chessboard.Square) drag.Point {
	p := tbl.Align(s)
	return drag.Point{X: p.X + grab.X, Y: p.Y + grab.Y}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		opts []Option
	}{
		{"zero board", []Option{WithBoardPixels(0)}},
		{"negative piece", []Option{WithPiecePixels(-1)}},
		{"piece wider than cell", []Option{WithBoardPixels(80), WithPiecePixels(11)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New(tt.opts...); err == nil {
				t.Errorf("New() error = nil, want error")
			}
		})
	}
}

func TestTable_DragCommit(t *testing.T) {
	t.Parallel()
	tbl := newTable(t, WithHighlightColors("green", "red"))

	var mu sync.Mutex
	var published []Snapshot
	unsubscribe := tbl.Subscribe(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		published = append(published, s)
	})
	defer unsubscribe()

	e2, e4, e5 := chessboard.Sq(6, 4), chessboard.Sq(4, 4), chessboard.Sq(3, 4)
	touch, err := tbl.Touch("alice", e2, pointerOver(tbl, e2))
	if err != nil {
		t.Fatalf("Touch(e2) error: %v", err)
	}
	if diff := cmp.Diff([]chessboard.Square{e4, chessboard.Sq(5, 4)}, touch.Targets); diff != "" {
		t.Errorf("Touch(e2).Targets mismatch (-want +got):\n%s", diff)
	}
	if touch.Position != tbl.Align(e2) {
		t.Errorf("Touch(e2).Position = %+v, want %+v", touch.Position, tbl.Align(e2))
	}

	hl, err := tbl.Move("alice", pointerOver(tbl, e5))
	if err != nil {
		t.Fatalf("Move(e5) error: %v", err)
	}
	if hl.Legal || hl.Color != "red" || hl.Square != e5 || hl.Reason != chessboard.BadGeometry {
		t.Errorf("Move(e5) = %+v, want illegal red highlight on e5", hl)
	}

	hl, err = tbl.Move("alice", pointerOver(tbl, e4))
	if err != nil {
		t.Fatalf("Move(e4) error: %v", err)
	}
	if !hl.Legal || hl.Color != "green" || hl.Square != e4 {
		t.Errorf("Move(e4) = %+v, want legal green highlight on e4", hl)
	}
	if snap := tbl.Snapshot(); snap.Version != 0 {
		t.Errorf("Move() changed the board, version = %d", snap.Version)
	}

	res, err := tbl.Release("alice", pointerOver(tbl, e4))
	if err != nil {
		t.Fatalf("Release(e4) error: %v", err)
	}
	if !res.Committed || res.Position != tbl.Align(e4) {
		t.Errorf("Release(e4) = committed %v at %+v, want committed at %+v", res.Committed, res.Position, tbl.Align(e4))
	}
	want := chessboard.ApplyMove(chessboard.InitialBoard(), e2, e4)
	if res.Snapshot.Board != want || res.Snapshot.Version != 1 {
		t.Errorf("Release(e4).Snapshot = version %d %s, want version 1 %s", res.Snapshot.Version, res.Snapshot.FEN, want.FEN())
	}
	if diff := cmp.Diff(&Move{From: e2, To: e4, Piece: 0, Captured: chessboard.EmptyCode}, res.Snapshot.Last); diff != "" {
		t.Errorf("Release(e4).Snapshot.Last mismatch (-want +got):\n%s", diff)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(published) != 1 || published[0].Board != want {
		t.Errorf("subscriber got %d snapshots, want the committed board once", len(published))
	}
}

func TestTable_DragRevert(t *testing.T) {
	t.Parallel()
	tbl := newTable(t)
	b1, b3 := chessboard.Sq(7, 1), chessboard.Sq(5, 1)

	if _, err := tbl.Touch("bob", b1, pointerOver(tbl, b1)); err != nil {
		t.Fatalf("Touch(b1) error: %v", err)
	}
	res, err := tbl.Release("bob", pointerOver(tbl, b3))
	if err != nil {
		t.Fatalf("Release(b3) error: %v", err)
	}
	if res.Committed {
		t.Errorf("Release(knight b1 -> b3).Committed = true, want false")
	}
	if res.Position != tbl.Align(b1) {
		t.Errorf("Release(b3).Position = %+v, want origin %+v", res.Position, tbl.Align(b1))
	}
	if res.Snapshot.Board != chessboard.InitialBoard() || res.Snapshot.Version != 0 {
		t.Errorf("Release(illegal) changed the board")
	}

	// The drag is over, a second release has nothing to drop.
	if _, err := tbl.Release("bob", pointerOver(tbl, b3)); !errors.Is(err, ErrNoDrag) {
		t.Errorf("second Release() error = %v, want %v", err, ErrNoDrag)
	}
}

func TestTable_DragOffBoardClamps(t *testing.T) {
	t.Parallel()
	tbl := newTable(t)
	a2 := chessboard.Sq(6, 0)

	if _, err := tbl.Touch("carol", a2, pointerOver(tbl, a2)); err != nil {
		t.Fatalf("Touch(a2) error: %v", err)
	}
	hl, err := tbl.Move("carol", drag.Point{X: -500, Y: 250})
	if err != nil {
		t.Fatalf("Move(off board) error: %v", err)
	}
	if hl.Position.X != 0 {
		t.Errorf("Move(off board).Position.X = %v, want clamped 0", hl.Position.X)
	}
	if hl.Square.Col != 0 {
		t.Errorf("Move(off board).Square = %v, want column 0", hl.Square)
	}
}

func TestTable_Errors(t *testing.T) {
	t.Parallel()
	tbl := newTable(t)
	e2 := chessboard.Sq(6, 4)

	if _, err := tbl.Touch("alice", chessboard.Sq(4, 4), drag.Point{}); !errors.Is(err, ErrNoPiece) {
		t.Errorf("Touch(empty) error = %v, want %v", err, ErrNoPiece)
	}
	if _, err := tbl.Move("alice", drag.Point{}); !errors.Is(err, ErrNoDrag) {
		t.Errorf("Move(no drag) error = %v, want %v", err, ErrNoDrag)
	}
	if _, err := tbl.Touch("alice", e2, pointerOver(tbl, e2)); err != nil {
		t.Fatalf("Touch(e2) error: %v", err)
	}
	if _, err := tbl.Touch("bob", chessboard.Sq(1, 4), drag.Point{}); !errors.Is(err, ErrDragInProgress) {
		t.Errorf("Touch(second client) error = %v, want %v", err, ErrDragInProgress)
	}
	if _, err := tbl.Move("bob", drag.Point{}); !errors.Is(err, ErrNoDrag) {
		t.Errorf("Move(other client) error = %v, want %v", err, ErrNoDrag)
	}

	tbl.Cancel("alice")
	if _, err := tbl.Touch("bob", chessboard.Sq(1, 4), pointerOver(tbl, chessboard.Sq(1, 4))); err != nil {
		t.Errorf("Touch() after Cancel error: %v", err)
	}
}

func TestTable_TryMoveAndReset(t *testing.T) {
	t.Parallel()
	tbl := newTable(t)

	_, verdict, err := tbl.TryMove(chessboard.Sq(7, 0), chessboard.Sq(5, 0))
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("TryMove(rook through pawn) error = %v, want %v", err, ErrIllegalMove)
	}
	if verdict.Reason != chessboard.Blocked {
		t.Errorf("TryMove(rook through pawn).Reason = %v, want %v", verdict.Reason, chessboard.Blocked)
	}

	snap, verdict, err := tbl.TryMove(chessboard.Sq(7, 6), chessboard.Sq(5, 5))
	if err != nil || !verdict.Legal {
		t.Fatalf("TryMove(g1 -> f3) = %+v, %v, want legal", verdict, err)
	}
	if snap.Version != 1 || snap.FEN != "rnbqkbnr/pppppppp/8/8/8/5N2/PPPPPPPP/RNBQKB1R" {
		t.Errorf("TryMove(g1 -> f3) snapshot = version %d %q", snap.Version, snap.FEN)
	}

	start, history := tbl.History()
	want := []Move{{From: chessboard.Sq(7, 6), To: chessboard.Sq(5, 5), Piece: 2, Captured: chessboard.EmptyCode}}
	if diff := cmp.Diff(want, history); diff != "" {
		t.Errorf("History() mismatch (-want +got):\n%s", diff)
	}
	if start != chessboard.InitialBoard() {
		t.Errorf("History() start = %s, want the initial board", start.FEN())
	}

	reset := tbl.Reset()
	if reset.Board != chessboard.InitialBoard() || reset.Version != 2 || reset.Last != nil {
		t.Errorf("Reset() = version %d %q, want initial board at version 2", reset.Version, reset.FEN)
	}
	if _, history := tbl.History(); len(history) != 0 {
		t.Errorf("History() after Reset = %v, want empty", history)
	}
}

func TestTable_InitialBoardOption(t *testing.T) {
	t.Parallel()
	b := chessboard.NewBoard()
	b.Set(chessboard.Sq(4, 4), chessboard.Piece{Kind: chessboard.King, Side: chessboard.White})
	tbl := newTable(t, WithInitialBoard(b))

	if got := tbl.Snapshot().Board; got != b {
		t.Errorf("Snapshot().Board = %s, want %s", got.FEN(), b.FEN())
	}
	if got := tbl.Evaluate(chessboard.Sq(4, 4), chessboard.Sq(3, 3)); !got.Legal {
		t.Errorf("Evaluate(king e4 -> d5) = %+v, want legal", got)
	}
}

func TestTable_TryMoveDuringDrag(t *testing.T) {
	t.Parallel()
	tbl := newTable(t)
	e2, e4 := chessboard.Sq(6, 4), chessboard.Sq(4, 4)

	if _, err := tbl.Touch("alice", e2, pointerOver(tbl, e2)); err != nil {
		t.Fatalf("Touch(e2) error: %v", err)
	}
	if _, _, err := tbl.TryMove(chessboard.Sq(6, 3), chessboard.Sq(4, 3)); !errors.Is(err, ErrDragInProgress) {
		t.Errorf("TryMove(d2 -> d4) during drag error = %v, want %v", err, ErrDragInProgress)
	}
	if got := tbl.Snapshot().Version; got != 0 {
		t.Errorf("TryMove during drag changed the board, version = %d", got)
	}

	res, err := tbl.Release("alice", pointerOver(tbl, e4))
	if err != nil || !res.Committed {
		t.Fatalf("Release(e4) = %+v, %v, want committed", res, err)
	}
	if _, _, err := tbl.TryMove(chessboard.Sq(6, 3), chessboard.Sq(4, 3)); err != nil {
		t.Errorf("TryMove(d2 -> d4) after drag error: %v", err)
	}
}

func TestTable_ReleaseChecksGrabbedPiece(t *testing.T) {
	t.Parallel()
	tbl := newTable(t)
	e2, e3 := chessboard.Sq(6, 4), chessboard.Sq(5, 4)

	if _, err := tbl.Touch("alice", e2, pointerOver(tbl, e2)); err != nil {
		t.Fatalf("Touch(e2) error: %v", err)
	}
	// A king on e2 could legally step to e3; the pawn that was grabbed is gone.
	tbl.mu.Lock()
	tbl.board.Set(e2, chessboard.Piece{Kind: chessboard.King, Side: chessboard.White})
	tbl.mu.Unlock()

	res, err := tbl.Release("alice", pointerOver(tbl, e3))
	if err != nil {
		t.Fatalf("Release(e3) error: %v", err)
	}
	if res.Committed || res.Position != tbl.Align(e2) {
		t.Errorf("Release(e3) = committed %v at %+v, want revert to %+v", res.Committed, res.Position, tbl.Align(e2))
	}
	if _, ok := tbl.Snapshot().Board.At(e3); ok {
		t.Errorf("Release(e3) moved a piece that was not grabbed")
	}

	if _, err := tbl.Touch("alice", chessboard.Sq(6, 3), pointerOver(tbl, chessboard.Sq(6, 3))); err != nil {
		t.Fatalf("Touch(d2) error: %v", err)
	}
	tbl.Reset()
	if _, err := tbl.Release("alice", pointerOver(tbl, chessboard.Sq(4, 3))); !errors.Is(err, ErrNoDrag) {
		t.Errorf("Release() after Reset error = %v, want %v", err, ErrNoDrag)
	}
}

func TestTable_DeliversInVersionOrder(t *testing.T) {
	t.Parallel()
	tbl := newTable(t)

	entered := make(chan struct{})
	proceed := make(chan struct{})
	first := true
	var mu sync.Mutex
	var versions []uint64
	defer tbl.Subscribe(func(s Snapshot) {
		if first {
			first = false
			close(entered)
			<-proceed
		}
		mu.Lock()
		defer mu.Unlock()
		versions = append(versions, s.Version)
	})()

	done := make(chan error)
	go func() {
		_, _, err := tbl.TryMove(chessboard.Sq(6, 4), chessboard.Sq(4, 4))
		done <- err
	}()
	<-entered

	// The first subscriber call is still running when the second move commits.
	if _, _, err := tbl.TryMove(chessboard.Sq(6, 3), chessboard.Sq(4, 3)); err != nil {
		t.Errorf("TryMove(d2 -> d4) error: %v", err)
	}
	close(proceed)
	if err := <-done; err != nil {
		t.Errorf("TryMove(e2 -> e4) error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff([]uint64{1, 2}, versions); diff != "" {
		t.Errorf("delivered versions mismatch (-want +got):\n%s", diff)
	}
}
