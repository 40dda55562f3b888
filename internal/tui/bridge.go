package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Sn1r/shannon/internal/driver"
)

// Program wraps a Bubble Tea program with helpers for feeding it run
// events from another goroutine.
type Program struct {
	program *tea.Program
}

// NewProgram creates the TUI program for one run.
func NewProgram(maxTurns int) *Program {
	model := New(maxTurns)
	p := tea.NewProgram(model, tea.WithAltScreen())
	return &Program{program: p}
}

// Run starts the TUI (blocking).
func (p *Program) Run() (tea.Model, error) {
	return p.program.Run()
}

// SendNotification forwards one driver notification.
func (p *Program) SendNotification(n driver.Notification) {
	p.program.Send(NotificationMsg{Notification: n})
}

// SendStreamText forwards an in-flight text delta.
func (p *Program) SendStreamText(text string) {
	p.program.Send(StreamTextMsg{Text: text})
}

// SendFatal reports a setup failure and ends the program.
func (p *Program) SendFatal(err error) {
	p.program.Send(FatalMsg{Error: err.Error()})
}

// Quit asks the program to exit.
func (p *Program) Quit() {
	p.program.Quit()
}
