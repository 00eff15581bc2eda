package state

import (
	"image/color"
	"math"
	"time"
)

// Point is a canvas-local position in pixels, origin at the top-left corner.
type Point struct{ X, Y float32 }

type Tool string

const (
	ToolBrush  Tool = "brush"
	ToolEraser Tool = "eraser"
)

// Valid reports whether t is one of the known tools.
func (t Tool) Valid() bool {
	return t == ToolBrush || t == ToolEraser
}

// Style is the tool, color and opacity a segment is painted with.
type Style struct {
	Tool    Tool        `json:"tool"`
	Color   color.NRGBA `json:"color"`
	Opacity float64     `json:"opacity"`
}

type StrokeID string

type Stroke struct {
	ID      StrokeID  `json:"id"`
	Seq     uint64    `json:"seq"`
	Points  []Point   `json:"points"`
	Style   Style     `json:"style"` // snapshot taken when the stroke began
	Started time.Time `json:"started"`
}

// Last returns the most recent point of the stroke.
func (s Stroke) Last() Point {
	return s.Points[len(s.Points)-1]
}

// ClampOpacity maps v into [0,1]. NaN is treated as fully opaque.
func ClampOpacity(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 1
	case v < 0:
		return 0
	case v > 1:
		return 1
	}

	return v
}
