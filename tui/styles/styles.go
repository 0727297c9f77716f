package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds all the styles for the application
type Styles struct {
	Theme Theme

	// Layout
	Header    lipgloss.Style
	Footer    lipgloss.Style
	ChatPanel lipgloss.Style
	InputArea lipgloss.Style

	// Messages
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UserMessage    lipgloss.Style
	ErrorMessage   lipgloss.Style
	Timestamp      lipgloss.Style

	// Tool activity badges
	ToolWaiting lipgloss.Style
	ToolActive  lipgloss.Style
	ToolDone    lipgloss.Style

	// UI elements
	Title   lipgloss.Style
	Help    lipgloss.Style
	Spinner lipgloss.Style
}

// NewStyles creates a new styles instance with the given theme
func NewStyles(theme Theme) *Styles {
	s := &Styles{Theme: theme}

	s.Header = lipgloss.NewStyle().
		Background(theme.Surface).
		Foreground(theme.Text).
		Padding(0, 2).
		Bold(true)

	s.Footer = lipgloss.NewStyle().
		Background(theme.Surface).
		Foreground(theme.TextDim).
		Padding(0, 2)

	s.ChatPanel = lipgloss.NewStyle().
		Padding(0, 1)

	s.InputArea = lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary)

	s.UserLabel = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	s.AssistantLabel = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true)

	s.UserMessage = lipgloss.NewStyle().
		Foreground(theme.Text).
		PaddingLeft(2)

	s.ErrorMessage = lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true).
		PaddingLeft(2)

	s.Timestamp = lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true)

	s.ToolWaiting = lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Padding(0, 1)

	s.ToolActive = lipgloss.NewStyle().
		Foreground(theme.Info).
		Padding(0, 1).
		Bold(true)

	s.ToolDone = lipgloss.NewStyle().
		Foreground(theme.Success).
		Padding(0, 1)

	s.Title = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		MarginBottom(1)

	s.Help = lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true)

	s.Spinner = lipgloss.NewStyle().
		Foreground(theme.Primary)

	return s
}

// RenderToolBadge returns a styled badge for one tool's streaming status
func (s *Styles) RenderToolBadge(tool, status string) string {
	switch status {
	case "active":
		return s.ToolActive.Render("● " + tool)
	case "done":
		return s.ToolDone.Render("✓ " + tool)
	default:
		return s.ToolWaiting.Render("◌ " + tool)
	}
}
