// Package ui is the fyne front end: the drawing surface, the toolbar and the
// dialogs that report export and share results.
package ui

import (
	"image"
	"image/color"

	"LocalSketch/internal/config"
	"LocalSketch/internal/session"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	AppID = "io.localsketch"
	title = "LocalSketch"
)

// Surface is the renderer as the window sees it: a live raster to show and
// the settings a config reload touches.
type Surface interface {
	View() *image.RGBA
	SetBackground(c color.Color)
	SetLineWidth(width float64)
}

type App struct {
	fyneApp fyne.App
	window  fyne.Window
	session *session.Session
	surface Surface
	board   *BoardWidget
	status  *widget.Label
	changes <-chan config.Config
}

// NewApp builds the main window. Config values arriving on changes are
// applied while the window is open.
func NewApp(cfg config.Config, sess *session.Session, surface Surface, changes <-chan config.Config) *App {
	return newApp(app.NewWithID(AppID), cfg, sess, surface, changes)
}

func newApp(fyneApp fyne.App, cfg config.Config, sess *session.Session, surface Surface, changes <-chan config.Config) *App {
	a := &App{
		fyneApp: fyneApp,
		window:  fyneApp.NewWindow(title),
		session: sess,
		surface: surface,
		status:  widget.NewLabel("Ready"),
		changes: changes,
	}

	a.board = NewBoardWidget(sess, surface.View())

	// Centered so the board keeps its raster size instead of filling the window.
	content := container.NewBorder(a.newToolbar(), a.status, nil, nil, container.NewCenter(a.board))
	a.window.SetContent(content)
	size := fyne.NewSize(float32(cfg.WindowWidth), float32(cfg.WindowHeight))
	a.window.Resize(size.Max(content.MinSize()))
	// The raster does not follow window resizes.
	a.window.SetFixedSize(true)
	a.addShortcuts()

	return a
}

// Run shows the window and blocks until it is closed.
func (a *App) Run() {
	if a.changes != nil {
		go a.watch()
	}

	a.window.ShowAndRun()
}

func (a *App) watch() {
	for cfg := range a.changes {
		fyne.Do(func() {
			a.applyConfig(cfg)
		})
	}
}

// applyConfig restyles the surface and PDF export, then replays the history.
func (a *App) applyConfig(cfg config.Config) {
	a.surface.SetBackground(cfg.BackgroundColor())
	a.surface.SetLineWidth(cfg.LineWidth)

	pdf := a.session.PDFOptions()
	pdf.Background = cfg.BackgroundColor()
	pdf.LineWidth = cfg.LineWidth
	a.session.SetPDFOptions(pdf)

	a.session.Redraw()
	a.setStatus("Config reloaded")
}

func (a *App) addShortcuts() {
	undo := &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}
	redo := &desktop.CustomShortcut{
		KeyName:  fyne.KeyZ,
		Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift,
	}

	a.window.Canvas().AddShortcut(undo, func(fyne.Shortcut) { a.undo() })
	a.window.Canvas().AddShortcut(redo, func(fyne.Shortcut) { a.redo() })
}

func (a *App) setStatus(text string) {
	a.status.SetText(text)
}
