package state

import (
	"log/slog"
	"slices"
	"time"
)

// Location tags which stack a stroke currently lives on.
type Location uint8

const (
	Committed Location = iota + 1
	Undone
)

func (l Location) String() string {
	switch l {
	case Committed:
		return "committed"
	case Undone:
		return "undone"
	default:
		return "unknown"
	}
}

type entry struct {
	stroke Stroke
	loc    Location
}

// History is the ordered stroke history of a drawing: a committed stack of
// visible strokes and an undone stack of strokes that can be redone.
//
// Strokes live in an arena indexed by id and the two stacks only hold ids.
// Moving a stroke between stacks retags its arena entry, so an id can never
// be on both stacks at once.
//
// History does no rendering and no locking. It is owned by the goroutine
// that processes input events.
type History struct {
	arena     map[StrokeID]*entry
	committed []StrokeID // oldest first
	undone    []StrokeID // most recently undone last
	active    StrokeID
	clock     Clock
	limit     int
	keepRedo  bool
	now       func() time.Time
}

type Option func(*History)

// WithLimit bounds the committed stack. Once it grows past n strokes the
// oldest one is dropped for good. Zero means unbounded.
func WithLimit(n int) Option {
	return func(h *History) {
		h.limit = max(n, 0)
	}
}

// WithKeepRedo keeps the undone stack when a new stroke begins, which
// makes the redo future survive new drawing.
func WithKeepRedo(keep bool) Option {
	return func(h *History) {
		h.keepRedo = keep
	}
}

func NewHistory(opts ...Option) *History {
	h := &History{
		arena: make(map[StrokeID]*entry),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Begin starts a new in-progress stroke holding exactly first and pushes it
// as the newest committed stroke. A stroke that is still active is ended.
func (h *History) Begin(first Point, style Style) StrokeID {
	if h.active != "" {
		h.End(h.active)
	}

	id, seq := h.clock.Next()
	h.arena[id] = &entry{
		stroke: Stroke{
			ID:      id,
			Seq:     seq,
			Points:  []Point{first},
			Style:   style,
			Started: h.now(),
		},
		loc: Committed,
	}
	h.committed = append(h.committed, id)
	h.active = id

	if !h.keepRedo && len(h.undone) > 0 {
		slog.Debug("Dropping redo history", slog.Int("strokes", len(h.undone)))
		h.dropAll(h.undone)
		h.undone = nil
	}

	h.enforceLimit()

	return id
}

// Append adds p to the active stroke. It is a no-op returning false when id
// does not name the stroke in progress.
func (h *History) Append(id StrokeID, p Point) bool {
	if id == "" || id != h.active {
		return false
	}

	e, ok := h.arena[id]
	if !ok {
		h.active = ""

		return false
	}

	e.stroke.Points = append(e.stroke.Points, p)

	return true
}

// End finalizes the active stroke. Further appends to it are ignored.
func (h *History) End(id StrokeID) bool {
	if id == "" || id != h.active {
		return false
	}
	h.active = ""

	return true
}

// Undo moves the newest committed stroke onto the undone stack. It returns
// false and changes nothing when there is nothing to undo. The caller is
// responsible for redrawing.
func (h *History) Undo() bool {
	if len(h.committed) == 0 {
		return false
	}

	h.active = ""

	id := h.committed[len(h.committed)-1]
	h.committed = h.committed[:len(h.committed)-1]
	h.arena[id].loc = Undone
	h.undone = append(h.undone, id)

	return true
}

// Redo moves the most recently undone stroke back on top of the committed
// stack. It returns false when the undone stack is empty.
func (h *History) Redo() bool {
	if len(h.undone) == 0 {
		return false
	}

	h.active = ""

	id := h.undone[len(h.undone)-1]
	h.undone = h.undone[:len(h.undone)-1]
	h.arena[id].loc = Committed
	h.committed = append(h.committed, id)
	h.enforceLimit()

	return true
}

// Strokes returns the committed strokes in draw order. The result is a copy;
// changing it never touches the history.
func (h *History) Strokes() []Stroke {
	return h.collect(h.committed)
}

// Undone returns the undone strokes, most recently undone last.
func (h *History) Undone() []Stroke {
	return h.collect(h.undone)
}

// Active returns the stroke currently in progress.
func (h *History) Active() (Stroke, bool) {
	if h.active == "" {
		return Stroke{}, false
	}

	e, ok := h.arena[h.active]
	if !ok {
		return Stroke{}, false
	}

	return view(e.stroke), true
}

// Location reports which stack holds id.
func (h *History) Location(id StrokeID) (Location, bool) {
	e, ok := h.arena[id]
	if !ok {
		return 0, false
	}

	return e.loc, true
}

func (h *History) CanUndo() bool { return len(h.committed) > 0 }
func (h *History) CanRedo() bool { return len(h.undone) > 0 }

// Len returns the number of committed strokes.
func (h *History) Len() int { return len(h.committed) }

// Bounds returns the bounding box of every committed point grown by pad.
func (h *History) Bounds(pad float32) (Rect, bool) {
	var (
		bounds Rect
		found  bool
	)

	for _, id := range h.committed {
		r, ok := BoundsOf(h.arena[id].stroke.Points, pad)
		if !ok {
			continue
		}
		if !found {
			bounds, found = r, true

			continue
		}
		bounds = Union(bounds, r)
	}

	return bounds, found
}

func (h *History) collect(ids []StrokeID) []Stroke {
	strokes := make([]Stroke, 0, len(ids))
	for _, id := range ids {
		strokes = append(strokes, view(h.arena[id].stroke))
	}

	return strokes
}

func (h *History) enforceLimit() {
	if h.limit == 0 || len(h.committed) <= h.limit {
		return
	}

	excess := len(h.committed) - h.limit
	evicted := h.committed[:excess]
	if slices.Contains(evicted, h.active) {
		h.active = ""
	}
	h.dropAll(evicted)
	h.committed = slices.Clone(h.committed[excess:])
}

func (h *History) dropAll(ids []StrokeID) {
	for _, id := range ids {
		delete(h.arena, id)
	}
}

func view(s Stroke) Stroke {
	s.Points = slices.Clone(s.Points)

	return s
}
