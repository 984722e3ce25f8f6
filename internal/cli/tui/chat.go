// Package tui implements the interactive chat interface built on Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/oeelens/oee-apiserver/internal/cli/client"
	"github.com/oeelens/oee-apiserver/internal/cli/session"
	"github.com/oeelens/oee-apiserver/internal/cli/types"
)

// UI configuration constants
const (
	defaultInputWidth     = 100
	defaultViewportWidth  = 100
	defaultViewportHeight = 30
	defaultWindowWidth    = 100
	defaultWindowHeight   = 40
	inputCharLimit        = 2000
	inputHeightReserved   = 2
	statusHeightReserved  = 3
	minContentHeight      = 10
	requestTimeout        = 2 * time.Minute
)

// Style definitions
var (
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	chartStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// requestState represents the state of the in-flight API request
type requestState int

const (
	requestIdle requestState = iota
	requestPending
)

// ChatProgram encapsulates the chat TUI program
type ChatProgram struct {
	model chatModel
}

// NewChatProgram creates a new chat program instance
func NewChatProgram(apiClient *client.APIClient, sess *session.Session) *ChatProgram {
	return &ChatProgram{model: initialModel(apiClient, sess)}
}

// Run starts the chat TUI program
func (p *ChatProgram) Run() error {
	program := tea.NewProgram(p.model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// chatModel is the Bubble Tea model containing all chat interface state
type chatModel struct {
	// Dependencies
	apiClient *client.APIClient
	sess      *session.Session

	// UI components
	input       textinput.Model
	contentView viewport.Model

	// Request state
	state   requestState
	content *strings.Builder // Use pointer to avoid Builder copy
	status  string

	// Error state
	err error

	// Window dimensions
	width  int
	height int
}

// initialModel creates the initial chat model
func initialModel(apiClient *client.APIClient, sess *session.Session) chatModel {
	input := textinput.New()
	input.Placeholder = ""
	input.Focus()
	input.CharLimit = inputCharLimit
	input.Width = defaultInputWidth
	input.Prompt = ""
	input.TextStyle = lipgloss.NewStyle()
	input.PromptStyle = lipgloss.NewStyle()

	contentViewport := viewport.New(defaultViewportWidth, defaultViewportHeight)

	m := chatModel{
		apiClient:   apiClient,
		sess:        sess,
		input:       input,
		contentView: contentViewport,
		state:       requestIdle,
		content:     &strings.Builder{},
		width:       defaultWindowWidth,
		height:      defaultWindowHeight,
	}
	m.content.WriteString(dimStyle.Render("Type a question about your production data, or /help for commands."))
	m.content.WriteString("\n")
	m.refreshContent()
	return m
}

// Init initializes the model (Bubble Tea interface)
func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Message type definitions
type (
	answerMsg struct {
		query string
		resp  *types.ChatResponse
	}
	answerErrMsg  struct{ err error }
	machinesMsg   struct{ machines []string }
	exportDoneMsg struct{ path string }
	exportErrMsg  struct{ err error }
)

// Update processes messages and updates the model (Bubble Tea interface)
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyPress(msg)...)

	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)

	case answerMsg:
		m.handleAnswer(msg.query, msg.resp)

	case answerErrMsg:
		m.err = msg.err
		m.state = requestIdle
		m.status = ""
		m.refreshContent()

	case machinesMsg:
		m.state = requestIdle
		m.status = ""
		m.showMachines(msg.machines)

	case exportDoneMsg:
		m.state = requestIdle
		m.status = ""
		m.content.WriteString("\n")
		m.content.WriteString(accentStyle.Render(fmt.Sprintf("Report saved to %s", msg.path)))
		m.content.WriteString("\n")
		m.refreshContent()

	case exportErrMsg:
		m.err = msg.err
		m.state = requestIdle
		m.status = ""
		m.refreshContent()
	}

	// Only update the input while no request is in flight
	if m.state != requestPending {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m *chatModel) handleKeyPress(msg tea.KeyMsg) []tea.Cmd {
	var cmds []tea.Cmd

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		cmds = append(cmds, tea.Quit)

	case tea.KeyEnter:
		if m.state != requestPending {
			text := strings.TrimSpace(m.input.Value())
			if text != "" {
				if cmd := m.dispatch(text); cmd != nil {
					cmds = append(cmds, cmd)
				}
			}
		}

	case tea.KeyUp:
		m.contentView.LineUp(1)

	case tea.KeyDown:
		m.contentView.LineDown(1)

	case tea.KeyPgUp:
		m.contentView.ViewUp()

	case tea.KeyPgDown:
		m.contentView.ViewDown()
	}

	return cmds
}

// handleWindowResize handles window size changes
func (m *chatModel) handleWindowResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	contentHeight := msg.Height - inputHeightReserved - statusHeightReserved
	if contentHeight < minContentHeight {
		contentHeight = minContentHeight
	}

	m.contentView.Width = msg.Width
	m.contentView.Height = contentHeight
	m.input.Width = msg.Width - 3

	// Reapply wrapping when window size changes
	m.refreshContent()
}

// commandHandler runs one slash command. arg is the remainder of the
// input line after the command word.
type commandHandler struct {
	usage string
	help  string
	run   func(m *chatModel, arg string) tea.Cmd
}

// slashCommands is the dispatch table for slash commands. Every key
// press that starts a command goes through this table rather than
// ad-hoc branching. Populated in init, the /help handler walks the
// table itself.
var slashCommands map[string]commandHandler

func init() {
	slashCommands = map[string]commandHandler{
		"/help": {
			usage: "/help",
			help:  "show available commands",
			run:   func(m *chatModel, _ string) tea.Cmd { m.showHelp(); return nil },
		},
		"/machine": {
			usage: "/machine <name>",
			help:  "switch to another machine (clears session history)",
			run:   (*chatModel).switchMachine,
		},
		"/machines": {
			usage: "/machines",
			help:  "list machines with available data",
			run:   (*chatModel).fetchMachines,
		},
		"/export": {
			usage: "/export [file]",
			help:  "export the session transcript as a PDF report",
			run:   (*chatModel).exportSession,
		},
		"/clear": {
			usage: "/clear",
			help:  "clear the screen and the session history",
			run:   func(m *chatModel, _ string) tea.Cmd { m.clearSession(); return nil },
		},
		"/quit": {
			usage: "/quit",
			help:  "leave the chat",
			run:   func(_ *chatModel, _ string) tea.Cmd { return tea.Quit },
		},
	}
}

// dispatch routes an input line to a slash command or to the chat API
func (m *chatModel) dispatch(text string) tea.Cmd {
	m.input.Reset()
	m.err = nil

	if !strings.HasPrefix(text, "/") {
		return m.askQuestion(text)
	}

	word, arg, _ := strings.Cut(text, " ")
	handler, ok := slashCommands[word]
	if !ok {
		m.content.WriteString("\n")
		m.content.WriteString(errorStyle.Render(fmt.Sprintf("unknown command %s, try /help", word)))
		m.content.WriteString("\n")
		m.refreshContent()
		return nil
	}
	return handler.run(m, strings.TrimSpace(arg))
}

// askQuestion sends a chat query for the selected machine
func (m *chatModel) askQuestion(text string) tea.Cmd {
	m.content.WriteString("\n")
	m.content.WriteString(boldStyle.Render("You"))
	m.content.WriteString("\n")
	m.content.WriteString(text)
	m.content.WriteString("\n\n")
	m.content.WriteString(accentStyle.Render("Assistant"))
	m.content.WriteString("\n")

	m.state = requestPending
	m.status = "analyzing..."
	m.refreshContent()

	apiClient := m.apiClient
	machine := m.sess.Machine()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		resp, err := apiClient.Chat(ctx, text, machine)
		if err != nil {
			return answerErrMsg{err: err}
		}
		return answerMsg{query: text, resp: resp}
	}
}

// handleAnswer renders a chat answer and records it in the session
func (m *chatModel) handleAnswer(query string, resp *types.ChatResponse) {
	m.state = requestIdle
	m.status = ""

	isError := resp.Type == "error"
	if isError {
		m.content.WriteString(errorStyle.Render(resp.Response))
	} else {
		m.content.WriteString(resp.Response)
	}
	m.content.WriteString("\n")

	for _, chart := range resp.Charts {
		m.content.WriteString(chartStyle.Render(fmt.Sprintf("📈 %s (included in /export)", chart.Title)))
		m.content.WriteString("\n")
	}

	m.sess.Append(session.Exchange{
		Query:    query,
		Response: resp.Response,
		IsError:  isError,
		Charts:   resp.Charts,
	})

	m.refreshContent()
}

// showHelp prints the command table
func (m *chatModel) showHelp() {
	names := make([]string, 0, len(slashCommands))
	for name := range slashCommands {
		names = append(names, name)
	}
	sort.Strings(names)

	m.content.WriteString("\n")
	m.content.WriteString(boldStyle.Render("Commands"))
	m.content.WriteString("\n")
	for _, name := range names {
		cmd := slashCommands[name]
		m.content.WriteString(fmt.Sprintf("  %-18s %s\n", cmd.usage, cmd.help))
	}
	m.refreshContent()
}

// switchMachine changes the machine the session is bound to
func (m *chatModel) switchMachine(arg string) tea.Cmd {
	if arg == "" {
		m.content.WriteString("\n")
		m.content.WriteString(errorStyle.Render("usage: /machine <name>"))
		m.content.WriteString("\n")
		m.refreshContent()
		return nil
	}

	m.sess.SetMachine(arg)
	m.content.WriteString("\n")
	m.content.WriteString(accentStyle.Render(fmt.Sprintf("Now chatting about %s", arg)))
	m.content.WriteString("\n")
	m.refreshContent()
	return nil
}

// fetchMachines asks the server for the machine list
func (m *chatModel) fetchMachines(_ string) tea.Cmd {
	m.state = requestPending
	m.status = "fetching machines..."
	m.refreshContent()

	apiClient := m.apiClient
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		machines, err := apiClient.ListMachines(ctx)
		if err != nil {
			return answerErrMsg{err: err}
		}
		return machinesMsg{machines: machines}
	}
}

// showMachines renders the machine list
func (m *chatModel) showMachines(machines []string) {
	m.content.WriteString("\n")
	m.content.WriteString(boldStyle.Render("Machines"))
	m.content.WriteString("\n")
	if len(machines) == 0 {
		m.content.WriteString(dimStyle.Render("  no machines with imported data"))
		m.content.WriteString("\n")
	}
	for _, machine := range machines {
		marker := "  "
		if machine == m.sess.Machine() {
			marker = "• "
		}
		m.content.WriteString(marker + machine + "\n")
	}
	m.refreshContent()
}

// exportSession downloads the session transcript as a PDF
func (m *chatModel) exportSession(arg string) tea.Cmd {
	content := m.sess.Transcript()
	if content == "" {
		m.content.WriteString("\n")
		m.content.WriteString(errorStyle.Render("nothing to export yet, ask a question first"))
		m.content.WriteString("\n")
		m.refreshContent()
		return nil
	}

	path := arg
	if path == "" {
		path = fmt.Sprintf("oee_report_%s.pdf", time.Now().Format("20060102_150405"))
	}

	m.state = requestPending
	m.status = "exporting..."
	m.refreshContent()

	apiClient := m.apiClient
	charts := m.sess.Charts()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		pdf, err := apiClient.ExportPDF(ctx, content, charts)
		if err != nil {
			return exportErrMsg{err: err}
		}
		if err := os.WriteFile(path, pdf, 0644); err != nil {
			return exportErrMsg{err: fmt.Errorf("failed to write %s: %w", path, err)}
		}
		return exportDoneMsg{path: path}
	}
}

// clearSession wipes the screen and the collected history
func (m *chatModel) clearSession() {
	m.sess.Clear()
	m.content.Reset()
	m.content.WriteString(dimStyle.Render("Session cleared."))
	m.content.WriteString("\n")
	m.refreshContent()
}

// refreshContent refreshes the display content
func (m *chatModel) refreshContent() {
	display := m.content.String()
	if m.err != nil {
		display += "\n" + errorStyle.Render(fmt.Sprintf("error: %v", m.err))
	}

	// Auto-wrap handling
	if m.width > 0 {
		display = wrapText(display, m.width)
	}

	m.contentView.SetContent(display)
	m.contentView.GotoBottom()
}

// wrapText applies auto-wrapping to text, honoring wide runes
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 10 {
		return text
	}

	lines := strings.Split(text, "\n")
	var result strings.Builder

	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}

		// Keep empty lines as-is
		if strings.TrimSpace(line) == "" {
			continue
		}

		result.WriteString(wrapLine(line, maxWidth))
	}

	return result.String()
}

// wrapLine wraps a single line of text by display width
func wrapLine(line string, maxWidth int) string {
	if runewidth.StringWidth(line) <= maxWidth {
		return line
	}

	var result strings.Builder
	var currentLine strings.Builder
	currentWidth := 0

	for _, r := range line {
		runeW := runewidth.RuneWidth(r)

		// If adding this character exceeds width, wrap first
		if currentWidth+runeW > maxWidth && currentWidth > 0 {
			result.WriteString(currentLine.String())
			result.WriteString("\n")
			currentLine.Reset()
			currentWidth = 0
		}

		currentLine.WriteRune(r)
		currentWidth += runeW
	}

	if currentLine.Len() > 0 {
		result.WriteString(currentLine.String())
	}

	return result.String()
}

// View renders the UI (Bubble Tea interface)
func (m chatModel) View() string {
	// Top status bar
	status := dimStyle.Render(fmt.Sprintf("machine %s", m.sess.Machine()))
	if m.state == requestPending {
		status += dimStyle.Render(" • " + m.status)
	}

	// Content area
	content := m.contentView.View()

	// Input area
	var inputView string
	if m.state == requestPending {
		inputView = dimStyle.Render("> ") + dimStyle.Render("waiting for answer...")
	} else {
		inputView = promptStyle.Render("> ") + m.input.View()
	}

	// Bottom help text
	help := ""
	if m.state != requestPending {
		help = dimStyle.Render("Enter send • /help commands • ↑↓ scroll • Esc quit")
	}

	parts := []string{status, "", content, "", inputView}
	if help != "" {
		parts = append(parts, help)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
