package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette (ANSI 256).
const (
	ColorGreen    = "154" // Info
	ColorGray     = "245" // Debug, names
	ColorDarkGray = "238" // Separators
	ColorRed      = "196" // Errors
	ColorYellow   = "220" // Warnings
	ColorCyan     = "87"  // Instance names in the viewer
)

// Styles holds the styles used to decorate log output.
type Styles struct {
	Debug   lipgloss.Style
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Name    lipgloss.Style
	Dim     lipgloss.Style
}

// NewRenderer returns a lipgloss renderer bound to w.
// When colour is forced the renderer ignores terminal detection.
func NewRenderer(w io.Writer, forceColor bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if forceColor {
		r.SetColorProfile(termenv.ANSI256)
	}
	return r
}

// DefaultStyles returns coloured styles created from r.
func DefaultStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Debug:   r.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Info:    r.NewStyle().Foreground(lipgloss.Color(ColorGreen)),
		Warning: r.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:   r.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorRed)),
		Name:    r.NewStyle().Foreground(lipgloss.Color(ColorCyan)),
		Dim:     r.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	return Styles{
		Debug:   lipgloss.NewStyle(),
		Info:    lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Name:    lipgloss.NewStyle(),
		Dim:     lipgloss.NewStyle(),
	}
}

// GetStyles returns the styles for w: coloured when enabled, plain otherwise.
func GetStyles(w io.Writer, mode ColorMode) (Styles, bool) {
	if !ColorEnabled(w, mode) {
		return NoColorStyles(), false
	}
	return DefaultStyles(NewRenderer(w, mode == ColorAlways)), true
}

// Level returns the style for a printed level name.
func (s Styles) Level(name string) lipgloss.Style {
	switch name {
	case "DEBUG":
		return s.Debug
	case "WARNING", "WARN":
		return s.Warning
	case "ERROR":
		return s.Error
	default:
		return s.Info
	}
}

// RenderLevel renders a level name with its style.
func (s Styles) RenderLevel(name string) string {
	return s.Level(name).Render(name)
}
