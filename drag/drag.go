// Package drag implements bounded dragging as a capability any visual element
// can carry. An element is described by its size and an Options value; each
// gesture is an explicit Session passed through the callbacks.
package drag

import "math"

// Point is a pixel position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect is a clamping rectangle.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Unbounded returns a rectangle that never clamps.
func Unbounded() Rect {
	return Rect{X: math.Inf(-1), Y: math.Inf(-1), Width: math.Inf(1), Height: math.Inf(1)}
}

// Size is the pixel size of a dragged element.
type Size struct {
	Width, Height float64
}

// TouchFunc is called when a gesture starts.
type TouchFunc func(s *Session)

// PositionFunc may replace the proposed position of the element. Returning
// false keeps the proposal.
type PositionFunc func(s *Session, proposed Point) (Point, bool)

// Options configures a Draggable.
type Options struct {
	Bounds    Rect
	OnTouch   TouchFunc
	OnMove    PositionFunc
	OnRelease PositionFunc
}

func keep(*Session, Point) (Point, bool) { return Point{}, false }

func defaultOptions() Options {
	return Options{
		Bounds:    Unbounded(),
		OnTouch:   func(*Session) {},
		OnMove:    keep,
		OnRelease: keep,
	}
}

// Option configures Options.
type Option func(*Options)

// WithBounds sets the clamping rectangle.
func WithBounds(r Rect) Option {
	return func(o *Options) {
		o.Bounds = r
	}
}

// OnTouch sets the callback run when a gesture starts.
func OnTouch(fn TouchFunc) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnTouch = fn
		}
	}
}

// OnMove sets the callback run for every pointer move.
func OnMove(fn PositionFunc) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnMove = fn
		}
	}
}

// OnRelease sets the callback run when the pointer is released.
func OnRelease(fn PositionFunc) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnRelease = fn
		}
	}
}

// Draggable is the drag behaviour of one element.
type Draggable struct {
	size Size
	opts Options
}

// New returns the drag behaviour for an element of the given size.
func New(size Size, opts ...Option) *Draggable {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Draggable{size: size, opts: o}
}

// Size returns the element size.
func (d *Draggable) Size() Size {
	return d.size
}

// Options returns the element configuration.
func (d *Draggable) Options() Options {
	return d.opts
}

// Session is the state of one gesture.
type Session struct {
	// Grab is the pointer offset inside the element when the gesture began.
	Grab Point
	// Start is the element position when the gesture began.
	Start Point
	// Position is the current element position.
	Position Point
	// Moves counts pointer moves seen so far.
	Moves int
}

// Touch starts a gesture for an element at position element grabbed at
// pointer.
func (d *Draggable) Touch(element, pointer Point) *Session {
	s := &Session{
		Grab:     pointer.Sub(element),
		Start:    element,
		Position: element,
	}
	d.opts.OnTouch(s)
	return s
}

// Move follows the pointer and returns the new clamped element position.
func (d *Draggable) Move(s *Session, pointer Point) Point {
	s.Moves++
	p := pointer.Sub(s.Grab)
	if override, ok := d.opts.OnMove(s, p); ok {
		p = override
	}
	s.Position = d.Clamp(p)
	return s.Position
}

// Release ends the gesture and returns the final clamped element position.
func (d *Draggable) Release(s *Session) Point {
	p := s.Position
	if override, ok := d.opts.OnRelease(s, p); ok {
		p = override
	}
	s.Position = d.Clamp(p)
	return s.Position
}

// Clamp keeps p inside the bounds so that the whole element stays visible.
func (d *Draggable) Clamp(p Point) Point {
	b := d.opts.Bounds
	return Point{
		X: math.Min(math.Max(p.X, b.X), b.Width-d.size.Width),
		Y: math.Min(math.Max(p.Y, b.Y), b.Height-d.size.Height),
	}
}
