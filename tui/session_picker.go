package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmorales/scout/chat"
)

// sessionSelectedMsg is emitted when a session is chosen from the picker
type sessionSelectedMsg struct {
	SessionID string
}

// sessionDeletedMsg is emitted when a session is deleted from the picker
type sessionDeletedMsg struct {
	SessionID string
}

// pickerClosedMsg is emitted when the picker is dismissed
type pickerClosedMsg struct{}

// SessionPicker is an overlay for switching between conversations
type SessionPicker struct {
	sessions []chat.Session
	selected int
	width    int
	height   int
}

// NewSessionPicker creates a picker over the given sessions
func NewSessionPicker(sessions []chat.Session, width, height int) *SessionPicker {
	return &SessionPicker{
		sessions: sessions,
		width:    width,
		height:   height,
	}
}

// Update handles key presses while the picker is open
func (p *SessionPicker) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if p.selected > 0 {
				p.selected--
			}
		case "down", "j":
			if p.selected < len(p.sessions)-1 {
				p.selected++
			}
		case "enter":
			if len(p.sessions) > 0 {
				id := p.sessions[p.selected].ID
				return func() tea.Msg { return sessionSelectedMsg{SessionID: id} }
			}
		case "d", "delete":
			if len(p.sessions) > 0 {
				id := p.sessions[p.selected].ID
				p.sessions = append(p.sessions[:p.selected], p.sessions[p.selected+1:]...)
				if p.selected >= len(p.sessions) && p.selected > 0 {
					p.selected--
				}
				return func() tea.Msg { return sessionDeletedMsg{SessionID: id} }
			}
		case "esc", "q":
			return func() tea.Msg { return pickerClosedMsg{} }
		}
	}
	return nil
}

// View renders the picker
func (p *SessionPicker) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("75")).
		MarginBottom(1)

	selectedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("75")).
		Bold(true)

	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("246"))

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		MarginTop(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Conversations"))
	b.WriteString("\n\n")

	if len(p.sessions) == 0 {
		b.WriteString(normalStyle.Render("No conversations yet."))
		b.WriteString(helpStyle.Render("\n\n[Esc] Close"))
		return b.String()
	}

	visibleHeight := p.height - 6
	startIdx := 0
	endIdx := len(p.sessions)
	if visibleHeight > 0 && visibleHeight < len(p.sessions) {
		if p.selected > visibleHeight/2 {
			startIdx = p.selected - visibleHeight/2
			if startIdx+visibleHeight > len(p.sessions) {
				startIdx = len(p.sessions) - visibleHeight
			}
		}
		endIdx = startIdx + visibleHeight
		if endIdx > len(p.sessions) {
			endIdx = len(p.sessions)
		}
	}

	for i := startIdx; i < endIdx; i++ {
		session := p.sessions[i]
		cursor := "  "
		style := normalStyle
		if i == p.selected {
			cursor = "▸ "
			style = selectedStyle
		}

		line := fmt.Sprintf("%s%s - %s (%d messages)",
			cursor,
			session.UpdatedAt.Format("Jan 02 15:04"),
			truncate(session.Title, 40),
			len(session.Messages))
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	if startIdx > 0 || endIdx < len(p.sessions) {
		b.WriteString(normalStyle.Render(fmt.Sprintf("\n[%d-%d of %d]", startIdx+1, endIdx, len(p.sessions))))
	}

	b.WriteString(helpStyle.Render("\n[↑/↓] Navigate  [Enter] Open  [d] Delete  [Esc] Close"))
	return b.String()
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
