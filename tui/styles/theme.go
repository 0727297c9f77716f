package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color theme
type Theme struct {
	Name       string
	Primary    lipgloss.AdaptiveColor
	Secondary  lipgloss.AdaptiveColor
	Background lipgloss.AdaptiveColor
	Surface    lipgloss.AdaptiveColor
	Text       lipgloss.AdaptiveColor
	TextDim    lipgloss.AdaptiveColor
	Border     lipgloss.AdaptiveColor
	Success    lipgloss.AdaptiveColor
	Warning    lipgloss.AdaptiveColor
	Error      lipgloss.AdaptiveColor
	Info       lipgloss.AdaptiveColor
}

// Default theme
var DefaultTheme = Theme{
	Name:       "default",
	Primary:    lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"},
	Secondary:  lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"},
	Background: lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E1E"},
	Surface:    lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#2D2D2D"},
	Text:       lipgloss.AdaptiveColor{Light: "#1E1E1E", Dark: "#E0E0E0"},
	TextDim:    lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"},
	Border:     lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#404040"},
	Success:    lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#4ADE80"},
	Warning:    lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"},
	Error:      lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"},
	Info:       lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"},
}

// Nord theme
var NordTheme = Theme{
	Name:       "nord",
	Primary:    lipgloss.AdaptiveColor{Light: "#5E81AC", Dark: "#81A1C1"},
	Secondary:  lipgloss.AdaptiveColor{Light: "#88C0D0", Dark: "#88C0D0"},
	Background: lipgloss.AdaptiveColor{Light: "#2E3440", Dark: "#2E3440"},
	Surface:    lipgloss.AdaptiveColor{Light: "#3B4252", Dark: "#3B4252"},
	Text:       lipgloss.AdaptiveColor{Light: "#ECEFF4", Dark: "#D8DEE9"},
	TextDim:    lipgloss.AdaptiveColor{Light: "#4C566A", Dark: "#4C566A"},
	Border:     lipgloss.AdaptiveColor{Light: "#4C566A", Dark: "#4C566A"},
	Success:    lipgloss.AdaptiveColor{Light: "#A3BE8C", Dark: "#A3BE8C"},
	Warning:    lipgloss.AdaptiveColor{Light: "#EBCB8B", Dark: "#EBCB8B"},
	Error:      lipgloss.AdaptiveColor{Light: "#BF616A", Dark: "#BF616A"},
	Info:       lipgloss.AdaptiveColor{Light: "#5E81AC", Dark: "#81A1C1"},
}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	switch name {
	case "nord":
		return NordTheme
	default:
		return DefaultTheme
	}
}
