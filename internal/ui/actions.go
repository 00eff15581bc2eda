package ui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"LocalSketch/internal/export"
	"LocalSketch/internal/session"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"github.com/dustin/go-humanize"
)

const shareTimeout = 5 * time.Second

// Undo and redo with nothing to move are silent.
func (a *App) undo() {
	if a.session.Undo() {
		a.setStatus(fmt.Sprintf("Undo (%d strokes)", a.session.History().Len()))
	}
}

func (a *App) redo() {
	if a.session.Redo() {
		a.setStatus(fmt.Sprintf("Redo (%d strokes)", a.session.History().Len()))
	}
}

func (a *App) saveDrawing() {
	a.saveAs(export.FileName, a.session.ExportPNG)
}

func (a *App) exportPDF() {
	a.saveAs(export.PDFFileName, a.session.ExportPDF)
}

// saveAs asks for a destination and writes the output of encode to it.
func (a *App) saveAs(name string, encode func(io.Writer) error) {
	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)

			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		size, errWrite := writeEncoded(writer, encode)
		if errWrite != nil {
			slog.Error("Failed to export drawing", slog.String("name", name),
				slog.String("error", errWrite.Error()))
			dialog.ShowError(errWrite, a.window)

			return
		}

		a.setStatus(fmt.Sprintf("Saved %s (%s)", writer.URI().Name(), humanize.Bytes(size)))
	}, a.window)
	save.SetFileName(name)
	save.Show()
}

// writeEncoded encodes fully before touching w so a failed encode leaves
// no partial file content behind.
func writeEncoded(w io.Writer, encode func(io.Writer) error) (uint64, error) {
	var buf bytes.Buffer
	if err := encode(&buf); err != nil {
		return 0, err
	}

	n, err := buf.WriteTo(w)
	if err != nil {
		return 0, err
	}

	return uint64(n), nil
}

func (a *App) share() {
	ctx, cancel := context.WithTimeout(context.Background(), shareTimeout)
	defer cancel()

	link, err := a.session.Share(ctx)
	switch {
	case errors.Is(err, session.ErrShareUnsupported):
		dialog.ShowInformation("Share", "Sharing is not supported on this device.", a.window)
	case err != nil:
		slog.Warn("Share failed", slog.String("error", err.Error()))
		a.setStatus("Share failed: " + err.Error())
	default:
		a.window.Clipboard().SetContent(link)
		a.setStatus("Shared at " + link + " (link copied)")
	}
}
