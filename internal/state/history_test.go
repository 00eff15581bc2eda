package state_test

import (
	"image/color"
	"testing"

	"LocalSketch/internal/state"
	"github.com/stretchr/testify/require"
)

var black = state.Style{Tool: state.ToolBrush, Color: color.NRGBA{A: 255}, Opacity: 1}

func draw(h *state.History, points ...state.Point) state.StrokeID {
	id := h.Begin(points[0], black)
	for _, p := range points[1:] {
		h.Append(id, p)
	}
	h.End(id)

	return id
}

func ids(strokes []state.Stroke) []state.StrokeID {
	out := make([]state.StrokeID, 0, len(strokes))
	for _, s := range strokes {
		out = append(out, s.ID)
	}

	return out
}

func requireExclusive(t *testing.T, h *state.History) {
	t.Helper()

	seen := map[state.StrokeID]bool{}
	for _, s := range h.Strokes() {
		require.False(t, seen[s.ID], "duplicate stroke %s", s.ID)
		seen[s.ID] = true
		loc, ok := h.Location(s.ID)
		require.True(t, ok)
		require.Equal(t, state.Committed, loc)
	}
	for _, s := range h.Undone() {
		require.False(t, seen[s.ID], "stroke %s on both stacks", s.ID)
		seen[s.ID] = true
		loc, ok := h.Location(s.ID)
		require.True(t, ok)
		require.Equal(t, state.Undone, loc)
	}
}

func TestUndoRedoScenario(t *testing.T) {
	h := state.NewHistory()
	a := draw(h, state.Point{X: 0, Y: 0}, state.Point{X: 10, Y: 10})
	b := draw(h, state.Point{X: 5, Y: 5}, state.Point{X: 15, Y: 15})

	require.True(t, h.Undo())
	require.Equal(t, []state.StrokeID{a}, ids(h.Strokes()))
	require.Equal(t, []state.StrokeID{b}, ids(h.Undone()))
	requireExclusive(t, h)

	require.True(t, h.Undo())
	require.Empty(t, h.Strokes())
	require.Equal(t, []state.StrokeID{b, a}, ids(h.Undone()))
	requireExclusive(t, h)

	require.True(t, h.Redo())
	require.Equal(t, []state.StrokeID{a}, ids(h.Strokes()))
	require.Equal(t, []state.StrokeID{b}, ids(h.Undone()))
	require.Equal(t, []state.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}, h.Strokes()[0].Points)
	requireExclusive(t, h)
}

func TestUndoRedoInverse(t *testing.T) {
	h := state.NewHistory()
	draw(h, state.Point{X: 1, Y: 1}, state.Point{X: 2, Y: 2})
	draw(h, state.Point{X: 3, Y: 3})
	draw(h, state.Point{X: 4, Y: 4}, state.Point{X: 5, Y: 5}, state.Point{X: 6, Y: 6})

	before := h.Strokes()
	require.True(t, h.Undo())
	require.True(t, h.Redo())
	require.Equal(t, before, h.Strokes())
	require.Empty(t, h.Undone())
}

func TestExhaustion(t *testing.T) {
	h := state.NewHistory()
	require.False(t, h.Undo())
	require.False(t, h.Redo())
	require.Empty(t, h.Strokes())
	require.Empty(t, h.Undone())

	draw(h, state.Point{X: 1, Y: 1})
	require.False(t, h.Redo())
	require.Len(t, h.Strokes(), 1)

	require.True(t, h.Undo())
	require.False(t, h.Undo())
	require.Empty(t, h.Strokes())
	require.Len(t, h.Undone(), 1)
}

func TestNewStrokeInvalidatesRedo(t *testing.T) {
	h := state.NewHistory()
	draw(h, state.Point{X: 1, Y: 1}, state.Point{X: 2, Y: 2})
	require.True(t, h.Undo())
	require.True(t, h.CanRedo())

	c := draw(h, state.Point{X: 9, Y: 9}, state.Point{X: 8, Y: 8})
	require.False(t, h.Redo())
	require.Empty(t, h.Undone())
	require.Equal(t, []state.StrokeID{c}, ids(h.Strokes()))
	requireExclusive(t, h)
}

func TestKeepRedoOnDraw(t *testing.T) {
	h := state.NewHistory(state.WithKeepRedo(true))
	a := draw(h, state.Point{X: 1, Y: 1}, state.Point{X: 2, Y: 2})
	require.True(t, h.Undo())

	c := draw(h, state.Point{X: 9, Y: 9}, state.Point{X: 8, Y: 8})
	require.True(t, h.Redo())
	require.Equal(t, []state.StrokeID{c, a}, ids(h.Strokes()))
	requireExclusive(t, h)
}

func TestAppendWithoutActiveStroke(t *testing.T) {
	h := state.NewHistory()
	require.False(t, h.Append("missing", state.Point{X: 1, Y: 1}))
	require.False(t, h.End("missing"))

	id := draw(h, state.Point{X: 1, Y: 1})
	require.False(t, h.Append(id, state.Point{X: 2, Y: 2}))
	require.Len(t, h.Strokes()[0].Points, 1)

	_, active := h.Active()
	require.False(t, active)
}

func TestBeginEndsActiveStroke(t *testing.T) {
	h := state.NewHistory()
	first := h.Begin(state.Point{X: 1, Y: 1}, black)
	second := h.Begin(state.Point{X: 2, Y: 2}, black)

	require.False(t, h.Append(first, state.Point{X: 3, Y: 3}))
	require.True(t, h.Append(second, state.Point{X: 3, Y: 3}))

	active, ok := h.Active()
	require.True(t, ok)
	require.Equal(t, second, active.ID)
	require.Equal(t, []state.StrokeID{first, second}, ids(h.Strokes()))
}

func TestInProgressStrokeIsCommitted(t *testing.T) {
	h := state.NewHistory()
	id := h.Begin(state.Point{X: 1, Y: 1}, black)
	h.Append(id, state.Point{X: 2, Y: 2})

	strokes := h.Strokes()
	require.Len(t, strokes, 1)
	require.Len(t, strokes[0].Points, 2)

	require.True(t, h.Undo())
	require.False(t, h.Append(id, state.Point{X: 3, Y: 3}))
}

func TestStrokesIsReadOnlyView(t *testing.T) {
	h := state.NewHistory()
	id := h.Begin(state.Point{X: 1, Y: 1}, black)

	view := h.Strokes()
	view[0].Points = append(view[0].Points, state.Point{X: 99, Y: 99})
	view[0].Points[0] = state.Point{X: 50, Y: 50}

	require.True(t, h.Append(id, state.Point{X: 2, Y: 2}))
	points := h.Strokes()[0].Points
	require.Equal(t, state.Point{X: 2, Y: 2}, points[1])
	require.Len(t, points, 2)
}

func TestLimitEvictsOldest(t *testing.T) {
	h := state.NewHistory(state.WithLimit(2))
	a := draw(h, state.Point{X: 1, Y: 1})
	b := draw(h, state.Point{X: 2, Y: 2})
	c := draw(h, state.Point{X: 3, Y: 3})

	require.Equal(t, []state.StrokeID{b, c}, ids(h.Strokes()))
	_, ok := h.Location(a)
	require.False(t, ok)
}

func TestSequenceIsMonotonic(t *testing.T) {
	h := state.NewHistory()
	draw(h, state.Point{X: 1, Y: 1})
	draw(h, state.Point{X: 2, Y: 2})

	strokes := h.Strokes()
	require.Less(t, strokes[0].Seq, strokes[1].Seq)
	require.NotEqual(t, strokes[0].ID, strokes[1].ID)
}

func TestBounds(t *testing.T) {
	h := state.NewHistory()
	_, ok := h.Bounds(0)
	require.False(t, ok)

	draw(h, state.Point{X: 10, Y: 20}, state.Point{X: 30, Y: 25})
	draw(h, state.Point{X: 5, Y: 40})

	r, ok := h.Bounds(1)
	require.True(t, ok)
	require.Equal(t, state.Rect{X: 4, Y: 19, Width: 27, Height: 22}, r)
}
