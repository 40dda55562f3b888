// Package backend provides the two interchangeable remote APIs behind a
// single interface: the agent-oriented chat protocol (Anthropic) and the
// cloud inference gateway. Callers see identical behavior regardless of
// which one is wired.
package backend

import (
	"context"

	"github.com/Sn1r/shannon/internal/message"
	"github.com/Sn1r/shannon/internal/stream"
)

// ToolDef describes a tool the model may request.
type ToolDef struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	InputSchema map[string]interface{} `json:"input_schema,omitempty"`
}

// Request is one generation request against a backend.
type Request struct {
	Model       string
	System      string
	Messages    []message.Message
	MaxTokens   int
	Temperature float64
	Tools       []ToolDef
}

// TurnOutcome is the decoded result of one round trip. Produced once per
// cycle and consumed immediately by the driver.
type TurnOutcome struct {
	Message    message.Message
	Model      string
	StopReason message.StopReason
	Usage      message.Usage
}

// Backend performs synchronous round trips.
type Backend interface {
	// Name identifies the backend for diagnostics and error wrapping.
	Name() string
	// Send performs exactly one round trip.
	Send(ctx context.Context, req *Request) (*TurnOutcome, error)
}

// Streamer is the optional streaming capability. Backends that cannot
// stream simply don't implement it; the driver falls back to Send.
type Streamer interface {
	Backend
	// Stream opens one streaming round trip and yields canonical events.
	Stream(ctx context.Context, req *Request) (stream.Source, error)
}
