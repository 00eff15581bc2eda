// Package session turns pointer and toolbar events into stroke history and
// raster updates.
//
// A Session is driven from a single goroutine (the UI event loop). Pointer
// moves paint only the newest segment; undo and redo mutate the history and
// then replay every committed stroke from scratch.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"

	"LocalSketch/internal/export"
	"LocalSketch/internal/state"
)

var ErrShareUnsupported = errors.New("sharing is not supported")

// StyleMode selects which style strokes are painted with.
type StyleMode string

const (
	// StyleStroke paints each stroke with the settings captured when it began.
	StyleStroke StyleMode = "stroke"
	// StyleLive paints every stroke, old ones included, with the current
	// settings. Redraws recolor history when the toolbar changes.
	StyleLive StyleMode = "live"
)

func (m StyleMode) Valid() bool {
	return m == StyleStroke || m == StyleLive
}

// Surface is the raster a session draws on.
type Surface interface {
	Clear()
	Segment(p1, p2 state.Point, style state.Style)
	Replay(strokes []state.Stroke, live *state.Style)
	Image() image.Image
	EncodePNG(w io.Writer) error
}

// Sharer hands an encoded drawing to some platform share mechanism and
// returns a user facing location for it.
type Sharer interface {
	Share(ctx context.Context, file export.File) (string, error)
}

type Session struct {
	history  *state.History
	settings *state.Settings
	surface  Surface
	sharer   Sharer
	mode     StyleMode
	pdf      export.PDFOptions
	log      *slog.Logger

	drawing bool
	active  state.StrokeID
	last    state.Point
	style   state.Style

	onChange func()
}

type Option func(*Session)

func WithStyleMode(mode StyleMode) Option {
	return func(s *Session) {
		if mode.Valid() {
			s.mode = mode
		}
	}
}

func WithSharer(sharer Sharer) Option {
	return func(s *Session) {
		s.sharer = sharer
	}
}

func WithPDFOptions(opts export.PDFOptions) Option {
	return func(s *Session) {
		s.pdf = opts
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.log = logger
		}
	}
}

func New(history *state.History, settings *state.Settings, surface Surface, opts ...Option) *Session {
	s := &Session{
		history:  history,
		settings: settings,
		surface:  surface,
		mode:     StyleStroke,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// OnChange registers fn to run after every raster change.
func (s *Session) OnChange(fn func()) {
	s.onChange = fn
}

func (s *Session) History() *state.History   { return s.history }
func (s *Session) Settings() *state.Settings { return s.settings }
func (s *Session) Mode() StyleMode           { return s.mode }

// Drawing reports whether a pointer-down to pointer-up interaction is active.
func (s *Session) Drawing() bool { return s.drawing }

// PointerDown starts a stroke at p.
func (s *Session) PointerDown(p state.Point) {
	if s.drawing {
		s.PointerUp()
	}

	s.style = s.settings.Style()
	s.active = s.history.Begin(p, s.style)
	s.last = p
	s.drawing = true
}

// PointerMove extends the active stroke to p and paints the new segment.
// It does nothing when no stroke is in progress.
func (s *Session) PointerMove(p state.Point) {
	if !s.drawing || !s.history.Append(s.active, p) {
		return
	}

	s.surface.Segment(s.last, p, s.segmentStyle())
	s.last = p
	s.changed()
}

// PointerUp finishes the active stroke. Pointer-leave is handled the same way.
func (s *Session) PointerUp() {
	if !s.drawing {
		return
	}

	s.history.End(s.active)
	s.drawing = false
	s.active = ""
}

// Undo removes the newest stroke and redraws. It returns false when there
// was nothing to undo.
func (s *Session) Undo() bool {
	s.PointerUp()

	if !s.history.Undo() {
		return false
	}

	s.Redraw()

	return true
}

// Redo restores the most recently undone stroke and redraws.
func (s *Session) Redo() bool {
	s.PointerUp()

	if !s.history.Redo() {
		return false
	}

	s.Redraw()

	return true
}

// Redraw replays every committed stroke onto a cleared surface.
func (s *Session) Redraw() {
	s.surface.Replay(s.history.Strokes(), s.liveStyle())
	s.changed()
}

// SetPDFOptions replaces the options used by ExportPDF, for instance after
// the background or line width changed.
func (s *Session) SetPDFOptions(opts export.PDFOptions) {
	s.pdf = opts
}

func (s *Session) PDFOptions() export.PDFOptions { return s.pdf }

func (s *Session) Image() image.Image {
	return s.surface.Image()
}

// ExportPNG writes the current raster as PNG.
func (s *Session) ExportPNG(w io.Writer) error {
	return export.PNG(w, s.surface)
}

// ExportPDF writes the committed strokes as a vector PDF.
func (s *Session) ExportPDF(w io.Writer) error {
	opts := s.pdf
	opts.Live = s.liveStyle()

	bounds, _ := s.history.Bounds(float32(opts.LineWidth))

	return export.PDF(w, s.history.Strokes(), bounds, opts)
}

// Share encodes the raster as drawing.png and passes it to the sharer.
func (s *Session) Share(ctx context.Context) (string, error) {
	if s.sharer == nil {
		return "", ErrShareUnsupported
	}

	file, errFile := export.PNGFile(s.surface)
	if errFile != nil {
		s.log.Error("Failed to encode shared drawing", slog.String("error", errFile.Error()))

		return "", errFile
	}

	location, errShare := s.sharer.Share(ctx, file)
	if errShare != nil {
		return "", fmt.Errorf("share %s: %w", file.Name, errShare)
	}

	s.log.Info("Shared drawing", slog.String("location", location), slog.Int("bytes", len(file.Data)))

	return location, nil
}

func (s *Session) segmentStyle() state.Style {
	if s.mode == StyleLive {
		return s.settings.Style()
	}

	return s.style
}

func (s *Session) liveStyle() *state.Style {
	if s.mode != StyleLive {
		return nil
	}

	style := s.settings.Style()

	return &style
}

func (s *Session) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}
