package state

import "image/color"

// Settings holds the toolbar state read at draw time. It is owned by the UI
// goroutine and is not safe for concurrent use.
type Settings struct {
	tool    Tool
	color   color.NRGBA
	opacity float64
}

func NewSettings(tool Tool, c color.NRGBA, opacity float64) *Settings {
	s := &Settings{color: c}
	s.SetTool(tool)
	s.SetOpacity(opacity)

	return s
}

// SetTool switches the active tool. Unknown tools fall back to the brush.
func (s *Settings) SetTool(tool Tool) {
	if !tool.Valid() {
		tool = ToolBrush
	}
	s.tool = tool
}

func (s *Settings) SetColor(c color.Color) {
	s.color = color.NRGBAModel.Convert(c).(color.NRGBA)
}

// SetOpacity stores v clamped to [0,1].
func (s *Settings) SetOpacity(v float64) {
	s.opacity = ClampOpacity(v)
}

func (s *Settings) Tool() Tool         { return s.tool }
func (s *Settings) Color() color.NRGBA { return s.color }
func (s *Settings) Opacity() float64   { return s.opacity }

// Style returns a snapshot of the current settings.
func (s *Settings) Style() Style {
	return Style{Tool: s.tool, Color: s.color, Opacity: s.opacity}
}
