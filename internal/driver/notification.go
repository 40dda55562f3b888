package driver

import (
	"time"

	"github.com/Sn1r/shannon/internal/message"
)

// Notification is the caller-visible union. A run emits Init, UserEcho,
// one Assistant per completed cycle, and exactly one terminal Result,
// always last, in strict chronological order.
type Notification interface {
	notification()
}

// Init frames the run before any network access: which model was
// selected and under which permission mode.
type Init struct {
	Model          string `json:"model"`
	PermissionMode string `json:"permission_mode"`
	SessionID      string `json:"session_id"`
}

func (Init) notification() {}

// UserEcho repeats the literal starting prompt back to the caller.
type UserEcho struct {
	Prompt string `json:"prompt"`
}

func (UserEcho) notification() {}

// Assistant carries one decoded reply turn.
type Assistant struct {
	Message    message.Message    `json:"message"`
	Model      string             `json:"model"`
	StopReason message.StopReason `json:"stop_reason"`
	Usage      message.Usage      `json:"usage"`
	Turn       int                `json:"turn"`
}

func (Assistant) notification() {}

// Result subtypes.
const (
	SubtypeSuccess  = "success"
	SubtypeMaxTurns = "error_max_turns"
	SubtypeError    = "error_during_execution"
)

// Result terminates the notification sequence. Budget exhaustion is a
// soft outcome: Success stays true under SubtypeMaxTurns because useful
// partial work was produced.
type Result struct {
	Subtype  string        `json:"subtype"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
	Turns    int           `json:"turns"`
	Duration time.Duration `json:"duration"`
	CostUSD  float64       `json:"cost_usd"`
	Usage    message.Usage `json:"usage"`
}

func (Result) notification() {}
