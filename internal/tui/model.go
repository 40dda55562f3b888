package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/Sn1r/shannon/internal/driver"
	"github.com/Sn1r/shannon/internal/message"
)

const maxLines = 400

type lineKind int

const (
	lineUser lineKind = iota
	lineAssistant
	lineTurn
	lineTool
	lineInfo
	lineError
)

type line struct {
	kind lineKind
	text string
}

// Model is the Bubble Tea model for a live run.
type Model struct {
	// Content
	model   string
	prompt  string
	lines   []line
	partial string // streamed text not yet closed by an Assistant notification

	// State
	turn      int
	maxTurns  int
	startTime time.Time
	waiting   bool
	done      bool
	success   bool
	finalMsg  string

	// UI
	spinner  spinner.Model
	width    int
	height   int
	quitting bool
}

// New creates the TUI model for one run.
func New(maxTurns int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = turnStyle
	return Model{
		maxTurns:  maxTurns,
		startTime: time.Now(),
		waiting:   true,
		spinner:   sp,
	}
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles TUI events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StreamTextMsg:
		m.partial += msg.Text

	case NotificationMsg:
		m.applyNotification(msg.Notification)
		if m.done {
			return m, tea.Quit
		}

	case FatalMsg:
		m.done = true
		m.success = false
		m.finalMsg = msg.Error
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) applyNotification(n driver.Notification) {
	switch v := n.(type) {
	case driver.Init:
		m.model = v.Model

	case driver.UserEcho:
		m.prompt = v.Prompt
		m.append(line{kind: lineUser, text: "you ▸ " + v.Prompt})

	case driver.Assistant:
		m.partial = ""
		m.turn = v.Turn
		m.waiting = true
		m.append(line{kind: lineTurn, text: fmt.Sprintf("turn %d · %s", v.Turn, v.StopReason)})
		for _, b := range v.Message.Content {
			m.appendBlock(b)
		}

	case driver.Result:
		m.done = true
		m.success = v.Success
		m.waiting = false
		switch {
		case v.Success && v.Subtype == driver.SubtypeSuccess:
			m.finalMsg = fmt.Sprintf("done in %s · $%.4f", v.Duration.Round(time.Millisecond), v.CostUSD)
		case v.Success:
			m.finalMsg = fmt.Sprintf("turn budget exhausted (%d turns)", v.Turns)
		default:
			m.finalMsg = "failed: " + v.Error
		}
	}
}

func (m *Model) appendBlock(b message.ContentBlock) {
	switch b.Type {
	case message.BlockText:
		if b.Text != "" {
			m.append(line{kind: lineAssistant, text: b.Text})
		}
	case message.BlockToolUse:
		if b.ToolUse != nil {
			preview := runewidth.Truncate(string(b.ToolUse.Input), 60, "…")
			m.append(line{kind: lineTool, text: fmt.Sprintf("⚙ %s %s", b.ToolUse.Name, preview)})
		}
	case message.BlockImage:
		if b.Image != nil {
			m.append(line{kind: lineInfo, text: fmt.Sprintf("🖼 image (%s)", b.Image.Format)})
		}
	}
}

func (m *Model) append(l line) {
	m.lines = append(m.lines, l)
	if len(m.lines) > maxLines {
		m.lines = m.lines[len(m.lines)-maxLines:]
	}
}
