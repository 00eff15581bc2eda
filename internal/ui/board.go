package ui

import (
	"image"

	"LocalSketch/internal/session"
	"LocalSketch/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// BoardWidget is the drawing surface. It forwards pointer input to the
// session and shows the live raster at one unit per raster pixel.
type BoardWidget struct {
	widget.BaseWidget
	session *session.Session
	image   *canvas.Image
	raster  fyne.Size
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

// NewBoardWidget shows view, which must be the raster the session paints on.
func NewBoardWidget(s *session.Session, view *image.RGBA) *BoardWidget {
	raster := fyne.NewSize(float32(view.Rect.Dx()), float32(view.Rect.Dy()))

	img := canvas.NewImageFromImage(view)
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScalePixels
	img.SetMinSize(raster)

	b := &BoardWidget{session: s, image: img, raster: raster}
	b.ExtendBaseWidget(b)
	s.OnChange(b.image.Refresh)

	return b
}

// MinSize pins the board to the raster size.
func (b *BoardWidget) MinSize() fyne.Size {
	return b.raster
}

// toPoint maps a widget position to raster pixels. The board is laid out at
// the raster size; the scale only matters if a layout stretches it anyway.
func (b *BoardWidget) toPoint(pos fyne.Position) state.Point {
	size := b.Size()
	if size.Width <= 0 || size.Height <= 0 || size == b.raster {
		return state.Point{X: pos.X, Y: pos.Y}
	}

	return state.Point{
		X: pos.X * b.raster.Width / size.Width,
		Y: pos.Y * b.raster.Height / size.Height,
	}
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.session.PointerDown(b.toPoint(e.Position))
	}
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.session.PointerUp()
	}
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.session.PointerMove(b.toPoint(e.Position))
}

func (b *BoardWidget) DragEnd() {
	b.session.PointerUp()
}

// MouseOut ends the stroke, the pointer left the surface.
func (b *BoardWidget) MouseOut() {
	b.session.PointerUp()
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent)    {}
func (b *BoardWidget) MouseMoved(*desktop.MouseEvent) {}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(b.image)
}
