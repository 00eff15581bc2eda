// Package render rebuilds the visible raster from stroke history.
//
// Every visible pixel is derived from stored points: Replay clears the
// surface and paints every segment of every stroke again, so the same
// strokes and styles always produce the same pixels. The eraser paints the
// background color; it does not reveal whatever was under the ink.
package render

import (
	"image"
	"image/color"
	"io"
	"log/slog"

	"LocalSketch/internal/state"
	"github.com/gogpu/gg"
)

// DefaultLineWidth is the stroke width in pixels for both tools.
const DefaultLineWidth = 5

var DefaultBackground = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Renderer paints strokes onto a fixed size raster using the gg software
// rasterizer. It is not safe for concurrent use.
type Renderer struct {
	dc         *gg.Context
	background color.NRGBA
	lineWidth  float64
}

type Option func(*Renderer)

func WithBackground(c color.Color) Option {
	return func(r *Renderer) {
		r.background = color.NRGBAModel.Convert(c).(color.NRGBA)
	}
}

// WithLineWidth overrides DefaultLineWidth. Non-positive widths are ignored.
func WithLineWidth(width float64) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.lineWidth = width
		}
	}
}

// New creates a width x height raster cleared to the background color.
func New(width, height int, opts ...Option) *Renderer {
	r := &Renderer{
		dc:         gg.NewContext(width, height),
		background: DefaultBackground,
		lineWidth:  DefaultLineWidth,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.Clear()

	return r
}

// Clear fills the whole surface with the background color.
func (r *Renderer) Clear() {
	r.dc.ClearWithColor(toRGBA(r.background, 1))
}

// Segment paints one line segment from p1 to p2.
func (r *Renderer) Segment(p1, p2 state.Point, style state.Style) {
	lineCap, ink := r.resolve(style)

	r.dc.SetLineWidth(r.lineWidth)
	r.dc.SetLineCap(lineCap)
	r.dc.SetStrokeBrush(gg.Solid(ink))
	r.dc.DrawLine(float64(p1.X), float64(p1.Y), float64(p2.X), float64(p2.Y))

	if err := r.dc.Stroke(); err != nil {
		slog.Warn("Failed to stroke segment", slog.String("error", err.Error()))
	}
}

// Replay clears the surface and repaints every consecutive point pair of
// every stroke, oldest stroke first. A nil live style paints each stroke
// with the style it was drawn with; otherwise live is used for all of them.
func (r *Renderer) Replay(strokes []state.Stroke, live *state.Style) {
	r.Clear()

	for _, stroke := range strokes {
		style := stroke.Style
		if live != nil {
			style = *live
		}

		for i := 1; i < len(stroke.Points); i++ {
			r.Segment(stroke.Points[i-1], stroke.Points[i], style)
		}
	}
}

func (r *Renderer) resolve(style state.Style) (gg.LineCap, gg.RGBA) {
	opacity := state.ClampOpacity(style.Opacity)

	if style.Tool == state.ToolEraser {
		return gg.LineCapSquare, toRGBA(r.background, opacity)
	}

	return gg.LineCapRound, toRGBA(style.Color, opacity)
}

func (r *Renderer) SetBackground(c color.Color) {
	r.background = color.NRGBAModel.Convert(c).(color.NRGBA)
}

func (r *Renderer) Background() color.NRGBA { return r.background }

func (r *Renderer) SetLineWidth(width float64) {
	if width > 0 {
		r.lineWidth = width
	}
}

func (r *Renderer) LineWidth() float64 { return r.lineWidth }

func (r *Renderer) Size() (int, int) {
	return r.dc.Width(), r.dc.Height()
}

// Image returns a copy of the current raster.
func (r *Renderer) Image() image.Image {
	return r.dc.Image()
}

// View returns the live raster. It shares pixels with the renderer, so it
// follows every later paint without copying.
func (r *Renderer) View() *image.RGBA {
	pm := r.dc.ResizeTarget()

	return &image.RGBA{
		Pix:    pm.Data(),
		Stride: 4 * pm.Width(),
		Rect:   image.Rect(0, 0, pm.Width(), pm.Height()),
	}
}

func (r *Renderer) EncodePNG(w io.Writer) error {
	return r.dc.EncodePNG(w)
}

func (r *Renderer) Close() error {
	return r.dc.Close()
}

func toRGBA(c color.NRGBA, opacity float64) gg.RGBA {
	return gg.RGBA2(
		float64(c.R)/255,
		float64(c.G)/255,
		float64(c.B)/255,
		float64(c.A)/255*opacity,
	)
}
