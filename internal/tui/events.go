package tui

// TUI event types — sent from the run loop to the TUI via tea.Program.Send()

import "github.com/Sn1r/shannon/internal/driver"

// NotificationMsg carries one driver notification.
type NotificationMsg struct {
	Notification driver.Notification
}

// StreamTextMsg is an in-flight text delta from a streaming turn.
type StreamTextMsg struct {
	Text string
}

// FatalMsg reports a setup failure and ends the program.
type FatalMsg struct {
	Error string
}
