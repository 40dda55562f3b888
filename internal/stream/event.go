// Package stream defines the canonical streaming event taxonomy and the
// reassembler that normalizes raw gateway frames into it.
package stream

import (
	"context"

	"github.com/Sn1r/shannon/internal/message"
)

// Kind discriminates the canonical streaming event union.
type Kind string

const (
	KindMessageStart Kind = "message_start"
	KindBlockStart   Kind = "content_block_start"
	KindBlockDelta   Kind = "content_block_delta"
	KindBlockStop    Kind = "content_block_stop"
	KindMessageDelta Kind = "message_delta"
	KindMessageStop  Kind = "message_stop"
)

// MessageInfo is the envelope a MessageStart event carries.
type MessageInfo struct {
	ID    string        `json:"id"`
	Role  message.Role  `json:"role"`
	Model string        `json:"model"`
	Usage message.Usage `json:"usage"`
}

// Delta is incremental content inside one block.
type Delta struct {
	Text        string `json:"text,omitempty"`
	PartialJSON string `json:"partial_json,omitempty"`
}

// Event is one canonical streaming event. The fields populated depend on
// Kind; events are emitted one per backend frame, in receipt order.
type Event struct {
	Kind       Kind
	Message    *MessageInfo          // KindMessageStart
	Index      int                   // block-scoped kinds
	Block      *message.ContentBlock // KindBlockStart
	Delta      *Delta                // KindBlockDelta
	StopReason message.StopReason    // KindMessageDelta, KindMessageStop
	Usage      *message.Usage        // KindMessageDelta
}

// Source yields canonical events one at a time. Next returns io.EOF
// after the final event; any other error ends the stream, with prior
// events standing.
type Source interface {
	Next(ctx context.Context) (*Event, error)
}
