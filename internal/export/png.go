// Package export turns the current raster or stroke history into files the
// user can keep: drawing.png for the raster and drawing.pdf for a vector
// copy of the strokes.
package export

import (
	"bytes"
	"errors"
	"io"
)

const (
	FileName    = "drawing.png"
	PDFFileName = "drawing.pdf"

	ContentTypePNG = "image/png"
	ContentTypePDF = "application/pdf"
)

var ErrEncode = errors.New("failed to encode drawing")

// File is an encoded drawing ready to be saved or shared.
type File struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// Encoder is anything that can write its raster as PNG.
type Encoder interface {
	EncodePNG(w io.Writer) error
}

// PNG writes src to w as a PNG image.
func PNG(w io.Writer, src Encoder) error {
	if err := src.EncodePNG(w); err != nil {
		return errors.Join(err, ErrEncode)
	}

	return nil
}

// PNGFile encodes src into an in-memory drawing.png payload.
func PNGFile(src Encoder) (File, error) {
	var buf bytes.Buffer
	if err := PNG(&buf, src); err != nil {
		return File{}, err
	}

	return File{Name: FileName, ContentType: ContentTypePNG, Data: buf.Bytes()}, nil
}
