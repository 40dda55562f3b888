// Package driver owns a single conversation run: its transcript, its
// turn budget, and the caller-facing notification sequence. It is
// pull-driven; no work happens, and no network call is issued, until the
// caller asks for the next notification.
package driver

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Sn1r/shannon/internal/backend"
	"github.com/Sn1r/shannon/internal/cost"
	"github.com/Sn1r/shannon/internal/message"
	"github.com/Sn1r/shannon/internal/stream"
)

// ErrDone is returned by Next once the terminal Result has been
// consumed.
var ErrDone = errors.New("conversation finished")

// DefaultMaxTurns bounds a run when the caller doesn't override it.
const DefaultMaxTurns = 100

// Options configure one run.
type Options struct {
	Prompt         string
	Model          string // backend-specific id, already mapped
	SystemPrompt   string
	MaxTurns       int     // <=0 means DefaultMaxTurns
	MaxTokens      int     // <=0 lets the backend default
	Temperature    float64 // <=0 lets the backend default
	PermissionMode string  // display only; defaults to "default"
	Streaming      bool    // use the streaming operation when the backend can

	// OnEvent observes canonical stream events as they arrive, for
	// live rendering. Only called on streaming cycles.
	OnEvent func(*stream.Event)

	Logger    *log.Logger
	Quiet     bool
	Estimator *cost.Estimator
}

type state int

const (
	stateInit state = iota
	stateEcho
	stateAwaiting
	stateClosing
	stateDone
)

// Driver runs one bounded multi-turn exchange. Each Driver exclusively
// owns its transcript and turn counter; separate instances share
// nothing, so concurrent runs need no locking between them.
type Driver struct {
	backend    backend.Backend
	opts       Options
	sessionID  string
	transcript message.Transcript
	estimator  *cost.Estimator
	logger     *log.Logger

	state    state
	turn     int
	maxTurns int
	started  time.Time
	usage    message.Usage
	result   *Result
}

// New constructs a driver. No notification is produced and no network
// access happens until the first Next call.
func New(b backend.Backend, opts Options) *Driver {
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}
	if opts.PermissionMode == "" {
		opts.PermissionMode = "default"
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	estimator := opts.Estimator
	if estimator == nil {
		estimator = cost.New(0, 0)
	}
	return &Driver{
		backend:   b,
		opts:      opts,
		sessionID: uuid.NewString(),
		estimator: estimator,
		logger:    logger,
		maxTurns:  opts.MaxTurns,
	}
}

// SessionID identifies this run.
func (d *Driver) SessionID() string { return d.sessionID }

// Messages returns a copy of the transcript so far.
func (d *Driver) Messages() []message.Message { return d.transcript.Messages() }

// Usage returns the accumulated token counters.
func (d *Driver) Usage() message.Usage { return d.usage }

// Result returns the terminal result, or nil while the run is live.
func (d *Driver) Result() *Result { return d.result }

// Next advances the run by exactly one notification. It returns ErrDone
// once the terminal Result has been delivered. Errors inside the turn
// loop never surface here; they become the Result.
func (d *Driver) Next(ctx context.Context) (Notification, error) {
	switch d.state {
	case stateInit:
		d.started = time.Now()
		d.transcript.Append(message.NewTextMessage(message.RoleUser, d.opts.Prompt))
		d.state = stateEcho
		return Init{
			Model:          d.opts.Model,
			PermissionMode: d.opts.PermissionMode,
			SessionID:      d.sessionID,
		}, nil

	case stateEcho:
		d.state = stateAwaiting
		return UserEcho{Prompt: d.opts.Prompt}, nil

	case stateAwaiting:
		return d.cycle(ctx), nil

	case stateClosing:
		return d.finish(&Result{
			Subtype: SubtypeSuccess,
			Success: true,
			CostUSD: d.estimator.Estimate(&d.transcript),
		}), nil

	default:
		return nil, ErrDone
	}
}

// cycle performs one request/response round trip and classifies the
// stop condition.
func (d *Driver) cycle(ctx context.Context) Notification {
	if d.turn >= d.maxTurns {
		// Soft terminal condition: the budget ran out but partial work
		// was produced, so this is not reported as a crash.
		return d.finish(&Result{
			Subtype: SubtypeMaxTurns,
			Success: true,
			CostUSD: d.estimator.Estimate(&d.transcript),
		})
	}
	d.turn++

	outcome, err := d.roundTrip(ctx)
	if err != nil {
		return d.finish(&Result{
			Subtype: SubtypeError,
			Success: false,
			Error:   err.Error(),
		})
	}

	d.transcript.Append(outcome.Message)
	d.usage.Add(outcome.Usage)

	switch outcome.StopReason {
	case message.StopEndTurn, message.StopSequence:
		d.state = stateClosing

	case message.StopToolUse:
		// Tool execution is an unimplemented bridge: the tool_use block
		// stays unresolved in the transcript and the next cycle sends
		// it back as-is. Known gap, kept for compatibility.
		if !d.opts.Quiet {
			d.logger.Printf("⚠ backend requested a tool; tool execution is not supported, continuing")
		}

	case message.StopMaxTokens:
		if !d.opts.Quiet {
			d.logger.Printf("⚠ turn %d truncated at the token limit, continuing", d.turn)
		}

	default:
		// Unknown stop reasons are a generic continue.
	}

	return Assistant{
		Message:    outcome.Message,
		Model:      outcome.Model,
		StopReason: outcome.StopReason,
		Usage:      outcome.Usage,
		Turn:       d.turn,
	}
}

// roundTrip issues exactly one network operation. At most one is ever in
// flight per driver, so transcript append order matches real time.
func (d *Driver) roundTrip(ctx context.Context) (*backend.TurnOutcome, error) {
	req := &backend.Request{
		Model:       d.opts.Model,
		System:      d.opts.SystemPrompt,
		Messages:    d.transcript.Messages(),
		MaxTokens:   d.opts.MaxTokens,
		Temperature: d.opts.Temperature,
	}

	if d.opts.Streaming {
		if streamer, ok := d.backend.(backend.Streamer); ok {
			return d.streamTurn(ctx, streamer, req)
		}
		if !d.opts.Quiet {
			d.logger.Printf("⚠ backend %s cannot stream, using the synchronous operation", d.backend.Name())
		}
	}

	return d.backend.Send(ctx, req)
}

// streamTurn consumes one stream to completion, forwarding each
// canonical event to the observer and folding them into the turn
// outcome.
func (d *Driver) streamTurn(ctx context.Context, streamer backend.Streamer, req *backend.Request) (*backend.TurnOutcome, error) {
	src, err := streamer.Stream(ctx, req)
	if err != nil {
		return nil, err
	}

	acc := stream.NewAccumulator()
	for {
		ev, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		acc.Feed(ev)
		if d.opts.OnEvent != nil {
			d.opts.OnEvent(ev)
		}
	}

	return &backend.TurnOutcome{
		Message:    acc.Message(),
		Model:      req.Model,
		StopReason: acc.StopReason(),
		Usage:      acc.Usage(),
	}, nil
}

// finish records the single terminal Result and moves to the done state.
func (d *Driver) finish(r *Result) Notification {
	r.Turns = d.turn
	r.Duration = time.Since(d.started)
	r.Usage = d.usage
	d.result = r
	d.state = stateDone
	return *r
}
