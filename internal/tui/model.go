// Package tui implements the interactive contact book session as a
// Bubble Tea program: a scrolling transcript above a command input line.
// All command semantics live in internal/command; the model only relays
// lines and renders results.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/rolodex/internal/command"
)

// lineKind classifies a transcript line for styling.
type lineKind int

const (
	lineEcho lineKind = iota
	lineOutput
	lineError
	lineFarewell
)

// transcriptLine is one rendered line of session history.
type transcriptLine struct {
	kind lineKind
	text string
}

// Model is the Bubble Tea model for the interactive session.
type Model struct {
	exec   *command.Executor
	input  textinput.Model
	keys   sessionKeys
	help   help.Model
	prompt string

	transcript []transcriptLine
	scroll     int // lines scrolled up from the transcript tail
	width      int
	height     int
	done       bool
}

// NewModel creates a session model over exec. An empty prompt selects
// command.DefaultPrompt.
func NewModel(exec *command.Executor, prompt string) Model {
	if prompt == "" {
		prompt = command.DefaultPrompt
	}

	ti := textinput.New()
	ti.Prompt = prompt
	ti.PromptStyle = promptStyle
	ti.Focus()

	return Model{
		exec:   exec,
		input:  ti,
		keys:   SessionKeyMap(),
		help:   help.New(),
		prompt: prompt,
	}
}

// Init starts the input cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.done = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Submit):
			return m.submit()

		case key.Matches(msg, m.keys.Up):
			if max := m.maxScroll(); m.scroll < max {
				m.scroll++
			}
			return m, nil

		case key.Matches(msg, m.keys.Down):
			if m.scroll > 0 {
				m.scroll--
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit executes the current input line and appends the exchange to the
// transcript. A farewell command quits the program.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()
	m.scroll = 0

	m.transcript = append(m.transcript, transcriptLine{lineEcho, m.prompt + line})

	out, quit := m.exec.Execute(line)
	for _, text := range outputLines(out) {
		kind := lineOutput
		switch {
		case quit:
			kind = lineFarewell
		case strings.HasPrefix(text, "Error: "):
			kind = lineError
		}
		m.transcript = append(m.transcript, transcriptLine{kind, text})
	}

	if quit {
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// outputLines splits a command result into transcript lines.
func outputLines(out string) []string {
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// transcriptHeight returns the number of transcript rows that fit above
// the input line and help bar.
func (m Model) transcriptHeight() int {
	if m.height == 0 {
		// No WindowSizeMsg yet: show everything.
		return len(m.transcript)
	}
	h := m.height - 2 // input line + help bar
	if h < 1 {
		h = 1
	}
	return h
}

// maxScroll returns how far the transcript can scroll up.
func (m Model) maxScroll() int {
	max := len(m.transcript) - m.transcriptHeight()
	if max < 0 {
		return 0
	}
	return max
}

// View renders the transcript window, the input line, and the help bar.
func (m Model) View() string {
	if m.done {
		return ""
	}

	var sb strings.Builder
	for _, line := range m.visibleTranscript() {
		sb.WriteString(m.renderLine(line))
		sb.WriteString("\n")
	}
	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

// visibleTranscript returns the transcript window selected by the current
// scroll offset.
func (m Model) visibleTranscript() []transcriptLine {
	h := m.transcriptHeight()
	end := len(m.transcript) - m.scroll
	if end > len(m.transcript) {
		end = len(m.transcript)
	}
	start := end - h
	if start < 0 {
		start = 0
	}
	return m.transcript[start:end]
}

// renderLine applies the style for a transcript line's kind.
func (m Model) renderLine(line transcriptLine) string {
	switch line.kind {
	case lineEcho:
		return echoStyle.Render(line.text)
	case lineError:
		return errorStyle.Render(line.text)
	case lineFarewell:
		return farewellStyle.Render(line.text)
	default:
		return line.text
	}
}
