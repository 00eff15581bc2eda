package export

import (
	"errors"
	"image/color"
	"io"

	"LocalSketch/internal/state"
	"github.com/jung-kurt/gofpdf"
)

const defaultPDFMargin = 10.0

type PDFOptions struct {
	Background color.NRGBA
	// LineWidth in canvas pixels; scaled together with the drawing.
	LineWidth float64
	// Live, when set, styles every stroke instead of its own style.
	Live *state.Style
	// Margin around the drawing in millimetres.
	Margin float64
}

// PDF draws strokes as vector lines on a single A4 landscape page, scaled to
// fit bounds inside the page margins.
func PDF(w io.Writer, strokes []state.Stroke, bounds state.Rect, opts PDFOptions) error {
	margin := opts.Margin
	if margin <= 0 {
		margin = defaultPDFMargin
	}

	doc := gofpdf.New("L", "mm", "A4", "")
	doc.SetCreator("LocalSketch", true)
	doc.AddPage()

	pageW, pageH := doc.GetPageSize()
	doc.SetFillColor(int(opts.Background.R), int(opts.Background.G), int(opts.Background.B))
	doc.Rect(0, 0, pageW, pageH, "F")

	scale := min(
		(pageW-2*margin)/max(float64(bounds.Width), 1),
		(pageH-2*margin)/max(float64(bounds.Height), 1),
	)
	project := func(p state.Point) (float64, float64) {
		return margin + (float64(p.X)-float64(bounds.X))*scale,
			margin + (float64(p.Y)-float64(bounds.Y))*scale
	}

	doc.SetLineWidth(opts.LineWidth * scale)

	for _, stroke := range strokes {
		style := stroke.Style
		if opts.Live != nil {
			style = *opts.Live
		}

		ink, lineCap := style.Color, "round"
		if style.Tool == state.ToolEraser {
			ink, lineCap = opts.Background, "square"
		}

		doc.SetDrawColor(int(ink.R), int(ink.G), int(ink.B))
		doc.SetAlpha(state.ClampOpacity(style.Opacity)*float64(ink.A)/255, "Normal")
		doc.SetLineCapStyle(lineCap)

		for i := 1; i < len(stroke.Points); i++ {
			x1, y1 := project(stroke.Points[i-1])
			x2, y2 := project(stroke.Points[i])
			doc.Line(x1, y1, x2, y2)
		}
	}

	if err := doc.Output(w); err != nil {
		return errors.Join(err, ErrEncode)
	}

	return nil
}
