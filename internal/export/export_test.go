package export_test

import (
	"bytes"
	"errors"
	"image/color"
	"io"
	"testing"

	"LocalSketch/internal/export"
	"LocalSketch/internal/state"
	"github.com/stretchr/testify/require"
)

type stubEncoder struct {
	data []byte
	err  error
}

func (s stubEncoder) EncodePNG(w io.Writer) error {
	if s.err != nil {
		return s.err
	}
	_, err := w.Write(s.data)

	return err
}

func TestPNGFile(t *testing.T) {
	file, err := export.PNGFile(stubEncoder{data: []byte("png")})
	require.NoError(t, err)
	require.Equal(t, "drawing.png", file.Name)
	require.Equal(t, export.ContentTypePNG, file.ContentType)
	require.Equal(t, []byte("png"), file.Data)
}

func TestPNGEncodeFailure(t *testing.T) {
	errBroken := errors.New("broken")

	_, err := export.PNGFile(stubEncoder{err: errBroken})
	require.ErrorIs(t, err, export.ErrEncode)
	require.ErrorIs(t, err, errBroken)
}

func TestPDF(t *testing.T) {
	strokes := []state.Stroke{
		{
			Points: []state.Point{{X: 0, Y: 0}, {X: 100, Y: 50}},
			Style:  state.Style{Tool: state.ToolBrush, Color: color.NRGBA{R: 255, A: 255}, Opacity: 0.5},
		},
		{
			Points: []state.Point{{X: 10, Y: 10}, {X: 20, Y: 20}},
			Style:  state.Style{Tool: state.ToolEraser, Opacity: 1},
		},
	}

	var buf bytes.Buffer
	err := export.PDF(&buf, strokes, state.Rect{Width: 100, Height: 50}, export.PDFOptions{
		Background: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		LineWidth:  5,
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.PDF(&buf, nil, state.Rect{}, export.PDFOptions{LineWidth: 5}))
	require.NotZero(t, buf.Len())
}
