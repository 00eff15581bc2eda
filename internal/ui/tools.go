package ui

import (
	"image/color"

	"LocalSketch/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var palette = []color.Color{
	color.Black,
	color.NRGBA{R: 255, A: 255},         // Red
	color.NRGBA{G: 255, A: 255},         // Green
	color.NRGBA{B: 255, A: 255},         // Blue
	color.NRGBA{R: 255, G: 255, A: 255}, // Yellow
}

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// newToolbar builds the tool, color and opacity controls plus the history
// and output actions.
func (a *App) newToolbar() fyne.CanvasObject {
	settings := a.session.Settings()

	toolLabel := widget.NewLabel(string(settings.Tool()))
	setTool := func(tool state.Tool) {
		settings.SetTool(tool)
		toolLabel.SetText(string(settings.Tool()))
	}

	current := canvas.NewRectangle(settings.Color())
	current.SetMinSize(fyne.NewSize(24, 24))
	setColor := func(c color.Color) {
		settings.SetColor(c)
		current.FillColor = settings.Color()
		current.Refresh()
	}

	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() { setTool(state.ToolBrush) }),
		widget.NewToolbarAction(theme.ContentClearIcon(), func() { setTool(state.ToolEraser) }),
		widget.NewToolbarAction(theme.ColorPaletteIcon(), func() {
			picker := dialog.NewColorPicker("Color", "Pick a brush color", setColor, a.window)
			picker.Advanced = true
			picker.Show()
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentUndoIcon(), a.undo),
		widget.NewToolbarAction(theme.ContentRedoIcon(), a.redo),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), a.saveDrawing),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), a.exportPDF),
		widget.NewToolbarAction(theme.MailSendIcon(), a.share),
	)

	swatches := container.NewHBox()
	for _, c := range palette {
		swatches.Add(newColorSwatch(c, setColor))
	}

	opacity := widget.NewSlider(0, 1)
	opacity.Step = 0.05
	opacity.SetValue(settings.Opacity())
	opacity.OnChanged = settings.SetOpacity
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), opacity)

	return container.NewHBox(
		tb,
		widget.NewSeparator(),
		widget.NewLabel("Tool:"),
		toolLabel,
		widget.NewSeparator(),
		current,
		swatches,
		widget.NewSeparator(),
		widget.NewLabel("Opacity:"),
		sliderContainer,
		layout.NewSpacer(),
	)
}
