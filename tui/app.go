// Package tui is the terminal chat interface for the research assistant.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/jmorales/scout/api"
	"github.com/jmorales/scout/chat"
	"github.com/jmorales/scout/internal/cache"
	"github.com/jmorales/scout/internal/logger"
	"github.com/jmorales/scout/tui/styles"
)

// Messages

type historyLoadedMsg struct {
	records   []api.HistoryRecord
	fromCache bool
	err       error
}

type streamStartedMsg struct {
	events <-chan api.StreamEvent
	cancel context.CancelFunc
}

type streamEventMsg struct {
	event api.StreamEvent
}

type streamFinishedMsg struct{}

type errMsg struct {
	err error
}

// App is the bubbletea model for the chat interface
type App struct {
	client *api.Client
	store  *chat.Store
	cache  *cache.Cache // nil when the local cache could not be opened

	styles   *styles.Styles
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	picker *SessionPicker

	activities   []chat.Activity
	streaming    bool
	events       <-chan api.StreamEvent
	cancelStream context.CancelFunc
	pendingQuery string
	finalAnswer  string
	offline      bool

	width  int
	height int
	ready  bool
}

// NewApp creates the chat TUI. The cache may be nil.
func NewApp(client *api.Client, store *chat.Store, cacheDB *cache.Cache, theme styles.Theme) *App {
	ta := textarea.New()
	ta.Placeholder = "Ask me anything..."
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.CharLimit = 0
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		client:   client,
		store:    store,
		cache:    cacheDB,
		styles:   styles.NewStyles(theme),
		textarea: ta,
		spinner:  sp,
	}
}

// Init loads persisted history before the first frame
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadHistory(), textarea.Blink)
}

// Update is the single event loop; all store mutations happen here
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The picker owns the keyboard while open. Stream and spinner messages
	// must still reach the main loop or an in-flight answer stalls.
	if a.picker != nil {
		switch msg.(type) {
		case sessionSelectedMsg, sessionDeletedMsg, pickerClosedMsg,
			streamStartedMsg, streamEventMsg, streamFinishedMsg, errMsg,
			spinner.TickMsg:
		default:
			cmd := a.picker.Update(msg)
			return a, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		a.ready = true
		a.refreshConversation()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if a.cancelStream != nil {
				a.cancelStream()
			}
			return a, tea.Quit
		case "ctrl+n":
			a.store.NewSession()
			a.refreshConversation()
			return a, nil
		case "ctrl+s":
			a.picker = NewSessionPicker(a.store.Sessions(), a.width, a.height)
			return a, nil
		case "enter":
			return a, a.submit()
		}

		var cmd tea.Cmd
		a.textarea, cmd = a.textarea.Update(msg)
		return a, cmd

	case sessionSelectedMsg:
		a.picker = nil
		if err := a.store.SwitchSession(msg.SessionID); err != nil {
			a.store.SetError(err.Error())
		}
		a.refreshConversation()

	case sessionDeletedMsg:
		a.store.DeleteSession(msg.SessionID)
		a.refreshConversation()

	case pickerClosedMsg:
		a.picker = nil

	case historyLoadedMsg:
		if msg.err != nil {
			logger.Warnf("tui: history load failed: %v", msg.err)
			a.store.SetError("Could not load chat history")
		}
		if len(msg.records) > 0 {
			a.store.LoadHistory(msg.records)
			a.offline = msg.fromCache
		}
		if a.store.Len() == 0 {
			a.store.NewSession()
		}
		a.refreshConversation()

	case streamStartedMsg:
		a.events = msg.events
		a.cancelStream = msg.cancel
		a.activities = chat.InitialActivities()
		cmds = append(cmds, a.waitForEvent(msg.events), a.spinner.Tick)

	case streamEventMsg:
		cmds = append(cmds, a.applyStreamEvent(msg.event)...)

	case streamFinishedMsg:
		// EOF without a done frame. Keep whatever answer already arrived;
		// otherwise tell the user the connection dropped.
		active := a.streaming
		a.endStream()
		if active {
			if a.finalAnswer != "" {
				a.commitAnswer()
			} else {
				a.store.SetError("Connection lost before the answer arrived")
				a.refreshConversation()
			}
		}

	case errMsg:
		a.endStream()
		a.store.SetError(msg.err.Error())
		if id := a.store.CurrentID(); id != "" {
			a.store.AddMessage(id, chat.RoleAssistant,
				fmt.Sprintf("❌ Sorry, I encountered an error: %v", msg.err), nil)
		}
		a.refreshConversation()

	case spinner.TickMsg:
		if a.streaming || a.store.Loading() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// View renders the full frame
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.picker != nil {
		return a.picker.View()
	}

	var b strings.Builder

	title := "scout"
	if session, ok := a.store.CurrentSession(); ok {
		title = "scout — " + truncate(session.Title, 60)
	}
	if a.offline {
		title += "  (offline history)"
	}
	b.WriteString(a.styles.Header.Width(a.width).Render(title))
	b.WriteString("\n")

	b.WriteString(a.viewport.View())
	b.WriteString("\n")

	if a.streaming {
		b.WriteString(a.renderActivities())
		b.WriteString("\n")
	}

	if err := a.store.Err(); err != "" {
		b.WriteString(a.styles.ErrorMessage.Render("⚠ " + err))
		b.WriteString("\n")
	}

	b.WriteString(a.styles.InputArea.Width(a.width - 2).Render(a.textarea.View()))
	b.WriteString("\n")
	b.WriteString(a.styles.Footer.Width(a.width).Render(
		"[Enter] Send  [Ctrl+N] New chat  [Ctrl+S] Sessions  [Ctrl+C] Quit"))

	return b.String()
}

// submit sends the typed query on the streaming endpoint
func (a *App) submit() tea.Cmd {
	input := strings.TrimSpace(a.textarea.Value())
	if input == "" || a.streaming || a.store.Loading() {
		return nil
	}

	sessionID := a.store.CurrentID()
	if sessionID == "" {
		sessionID = a.store.NewSession()
	}

	a.textarea.Reset()
	a.store.SetError("")
	a.store.AddMessage(sessionID, chat.RoleUser, input, nil)
	a.store.SetLoading(true)
	a.streaming = true
	a.pendingQuery = input
	a.finalAnswer = ""
	a.refreshConversation()

	client := a.client
	ctx, cancel := context.WithCancel(context.Background())
	return func() tea.Msg {
		events, err := client.ResearchStream(ctx, input, sessionID)
		if err != nil {
			cancel()
			return errMsg{err: err}
		}
		return streamStartedMsg{events: events, cancel: cancel}
	}
}

// waitForEvent pumps the next stream event into the program
func (a *App) waitForEvent(events <-chan api.StreamEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return streamFinishedMsg{}
		}
		return streamEventMsg{event: event}
	}
}

// applyStreamEvent folds one event into UI state and decides what runs next
func (a *App) applyStreamEvent(event api.StreamEvent) []tea.Cmd {
	a.activities = chat.ApplyEvent(a.activities, event)

	switch event.Type {
	case api.EventFinalResponse:
		a.finalAnswer = event.Response

	case api.EventDone:
		a.endStream()
		a.commitAnswer()
		return nil

	case api.EventError:
		a.endStream()
		a.store.SetError(event.Error)
		if id := a.store.CurrentID(); id != "" {
			a.store.AddMessage(id, chat.RoleAssistant,
				"❌ Sorry, I encountered an error: "+event.Error, nil)
		}
		a.refreshConversation()
		return nil
	}

	// Non-terminal: keep listening. The channel stays open until the
	// reader goroutine finishes.
	if a.events == nil {
		return nil
	}
	return []tea.Cmd{a.waitForEvent(a.events)}
}

// commitAnswer appends the assistant message and mirrors it to the cache
func (a *App) commitAnswer() {
	sessionID := a.store.CurrentID()
	if sessionID == "" {
		return
	}

	answer := a.finalAnswer
	if answer == "" {
		answer = "(no response)"
	}

	var toolsUsed []string
	for _, act := range a.activities {
		if act.Status == chat.StatusDone {
			toolsUsed = append(toolsUsed, act.Tool)
		}
	}

	a.store.AddMessage(sessionID, chat.RoleAssistant, answer, toolsUsed)
	a.store.SetLoading(false)
	a.refreshConversation()

	if a.cache != nil {
		err := a.cache.Put(api.HistoryRecord{
			ID:        uuid.NewString(),
			Query:     a.pendingQuery,
			Response:  answer,
			SessionID: sessionID,
			CreatedAt: time.Now(),
		})
		if err != nil {
			logger.Warnf("tui: cache write failed: %v", err)
		}
	}
}

func (a *App) endStream() {
	if a.cancelStream != nil {
		a.cancelStream()
		a.cancelStream = nil
	}
	a.events = nil
	a.streaming = false
	a.store.SetLoading(false)
}

// loadHistory fetches persisted history, falling back to the local cache
func (a *App) loadHistory() tea.Cmd {
	client := a.client
	cacheDB := a.cache
	return func() tea.Msg {
		resp, err := client.ResearchHistory(context.Background())
		if err == nil {
			if cacheDB != nil {
				if cerr := cacheDB.PutAll(resp.History); cerr != nil {
					logger.Warnf("tui: cache mirror failed: %v", cerr)
				}
			}
			return historyLoadedMsg{records: resp.History}
		}

		logger.Warnf("tui: backend history unavailable: %v", err)
		if cacheDB != nil {
			if recs, cerr := cacheDB.Recent(200); cerr == nil && len(recs) > 0 {
				return historyLoadedMsg{records: recs, fromCache: true}
			}
		}
		return historyLoadedMsg{err: err}
	}
}

// layout sizes the widgets to the window
func (a *App) layout() {
	inputHeight := 5  // bordered textarea
	chromeHeight := 4 // header, footer, spacing
	vpHeight := a.height - inputHeight - chromeHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	if a.viewport.Width == 0 {
		a.viewport = viewport.New(a.width, vpHeight)
	} else {
		a.viewport.Width = a.width
		a.viewport.Height = vpHeight
	}
	a.textarea.SetWidth(a.width - 6)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(a.width-6),
	)
	if err != nil {
		logger.Warnf("tui: markdown renderer unavailable: %v", err)
		a.renderer = nil
	} else {
		a.renderer = renderer
	}
}

// refreshConversation re-renders the current session into the viewport
func (a *App) refreshConversation() {
	if !a.ready {
		return
	}

	session, ok := a.store.CurrentSession()
	if !ok || len(session.Messages) == 0 {
		a.viewport.SetContent(a.emptyState())
		return
	}

	var b strings.Builder
	for _, msg := range session.Messages {
		ts := a.styles.Timestamp.Render(msg.Timestamp.Format("15:04"))
		switch msg.Role {
		case chat.RoleUser:
			b.WriteString(a.styles.UserLabel.Render("You ") + ts + "\n")
			b.WriteString(a.styles.UserMessage.Render(msg.Content))
		case chat.RoleAssistant:
			b.WriteString(a.styles.AssistantLabel.Render("Scout ") + ts + "\n")
			b.WriteString(a.renderMarkdown(msg.Content))
			if len(msg.ToolsUsed) > 0 {
				b.WriteString("\n" + a.styles.Help.Render("  via "+strings.Join(msg.ToolsUsed, ", ")))
			}
		}
		b.WriteString("\n\n")
	}

	if a.streaming {
		b.WriteString(a.styles.AssistantLabel.Render("Scout ") + a.spinner.View() + "\n")
	}

	a.viewport.SetContent(b.String())
	a.viewport.GotoBottom()
}

func (a *App) renderMarkdown(content string) string {
	if a.renderer == nil {
		return a.styles.UserMessage.Render(content)
	}
	out, err := a.renderer.Render(content)
	if err != nil {
		return a.styles.UserMessage.Render(content)
	}
	return strings.TrimRight(out, "\n")
}

func (a *App) renderActivities() string {
	badges := make([]string, 0, len(a.activities))
	for _, act := range a.activities {
		badges = append(badges, a.styles.RenderToolBadge(act.Tool, string(act.Status)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, badges...)
}

func (a *App) emptyState() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(a.styles.Title.Render("  Research Assistant"))
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("  Ask me anything. I can search the web and arXiv,\n  remember our conversations, and provide detailed research."))
	return b.String()
}
