// Package output renders the notification sequence for the terminal:
// styled plain mode, machine-readable JSON lines, or nothing in quiet
// and TUI modes.
package output

// Mode selects how a run is rendered.
type Mode string

const (
	ModePlain Mode = "plain"
	ModeJSON  Mode = "json"
	ModeQuiet Mode = "quiet"
	ModeTUI   Mode = "tui"
)
