package stream

import (
	"context"

	"github.com/google/uuid"

	"github.com/Sn1r/shannon/internal/message"
	"github.com/Sn1r/shannon/internal/wire"
)

// FrameSource is a forward-only, single-pass supply of raw gateway
// frames. Next returns io.EOF when the stream is exhausted.
type FrameSource interface {
	Next(ctx context.Context) (*wire.Frame, error)
}

// Reassembler translates raw gateway frames into canonical events, one
// event per frame, without waiting for stream completion. It buffers
// nothing beyond the single in-flight frame. A mid-stream error is
// returned as-is; events already emitted stand.
type Reassembler struct {
	frames FrameSource
	model  string
}

// NewReassembler wraps a frame source for the given model id. The model
// id is needed because the gateway's start frame omits it.
func NewReassembler(frames FrameSource, model string) *Reassembler {
	return &Reassembler{frames: frames, model: model}
}

// Next pulls one frame and returns its canonical event.
func (r *Reassembler) Next(ctx context.Context) (*Event, error) {
	for {
		frame, err := r.frames.Next(ctx)
		if err != nil {
			return nil, err
		}

		switch {
		case frame.MessageStart != nil:
			return r.messageStart(frame.MessageStart), nil

		case frame.ContentBlockStart != nil:
			return blockStart(frame.ContentBlockStart), nil

		case frame.ContentBlockDelta != nil:
			return blockDelta(frame.ContentBlockDelta), nil

		case frame.ContentBlockStop != nil:
			return &Event{Kind: KindBlockStop, Index: frame.ContentBlockStop.ContentBlockIndex}, nil

		case frame.MessageStop != nil:
			return &Event{
				Kind:       KindMessageStop,
				StopReason: message.StopReason(frame.MessageStop.StopReason),
			}, nil

		case frame.Metadata != nil:
			usage := message.Usage{
				InputTokens:  frame.Metadata.Usage.InputTokens,
				OutputTokens: frame.Metadata.Usage.OutputTokens,
			}
			return &Event{Kind: KindMessageDelta, Usage: &usage}, nil

		default:
			// Frame kinds this version doesn't know are skipped, not
			// fatal.
			continue
		}
	}
}

// messageStart synthesizes the parts of the canonical envelope the
// gateway's start frame lacks: message id, role, model, and usage.
func (r *Reassembler) messageStart(f *wire.MessageStartFrame) *Event {
	id := f.ID
	if id == "" {
		id = "msg_" + uuid.NewString()
	}
	role := message.Role(f.Role)
	if role == "" {
		role = message.RoleAssistant
	}
	return &Event{
		Kind: KindMessageStart,
		Message: &MessageInfo{
			ID:    id,
			Role:  role,
			Model: r.model,
			Usage: message.Usage{},
		},
	}
}

func blockStart(f *wire.BlockStartFrame) *Event {
	block := message.TextBlock("")
	if f.Start != nil && f.Start.ToolUse != nil {
		block = message.ContentBlock{
			Type: message.BlockToolUse,
			ToolUse: &message.ToolUse{
				ID:   f.Start.ToolUse.ToolUseID,
				Name: f.Start.ToolUse.Name,
			},
		}
	}
	return &Event{Kind: KindBlockStart, Index: f.ContentBlockIndex, Block: &block}
}

func blockDelta(f *wire.BlockDeltaFrame) *Event {
	delta := &Delta{Text: f.Delta.Text}
	if f.Delta.ToolUse != nil {
		delta.PartialJSON = f.Delta.ToolUse.Input
	}
	return &Event{Kind: KindBlockDelta, Index: f.ContentBlockIndex, Delta: delta}
}
