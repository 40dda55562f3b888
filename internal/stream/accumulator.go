package stream

import (
	"encoding/json"

	"github.com/Sn1r/shannon/internal/message"
)

// Accumulator folds canonical events back into a complete assistant
// turn, for consumers that stream for display but still need the
// finished message afterwards.
type Accumulator struct {
	blocks     map[int]*message.ContentBlock
	order      []int
	inputJSON  map[int][]byte
	stopReason message.StopReason
	usage      message.Usage
	info       *MessageInfo
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		blocks:    make(map[int]*message.ContentBlock),
		inputJSON: make(map[int][]byte),
	}
}

// Feed folds one event in. Events must arrive in receipt order.
func (a *Accumulator) Feed(ev *Event) {
	switch ev.Kind {
	case KindMessageStart:
		a.info = ev.Message

	case KindBlockStart:
		if _, seen := a.blocks[ev.Index]; !seen {
			a.order = append(a.order, ev.Index)
		}
		block := message.TextBlock("")
		if ev.Block != nil {
			block = *ev.Block
		}
		a.blocks[ev.Index] = &block

	case KindBlockDelta:
		block, ok := a.blocks[ev.Index]
		if !ok {
			// Delta without a start frame: open the block implicitly.
			b := message.TextBlock("")
			block = &b
			a.blocks[ev.Index] = block
			a.order = append(a.order, ev.Index)
		}
		if ev.Delta == nil {
			return
		}
		block.Text += ev.Delta.Text
		if ev.Delta.PartialJSON != "" {
			a.inputJSON[ev.Index] = append(a.inputJSON[ev.Index], ev.Delta.PartialJSON...)
		}

	case KindBlockStop:
		if block, ok := a.blocks[ev.Index]; ok {
			if block.Type == message.BlockToolUse && block.ToolUse != nil {
				if input := a.inputJSON[ev.Index]; len(input) > 0 {
					block.ToolUse.Input = json.RawMessage(input)
				}
			}
		}

	case KindMessageDelta:
		if ev.Usage != nil {
			a.usage = *ev.Usage
		}
		if ev.StopReason != "" {
			a.stopReason = ev.StopReason
		}

	case KindMessageStop:
		if ev.StopReason != "" {
			a.stopReason = ev.StopReason
		}
	}
}

// Message assembles the accumulated assistant message.
func (a *Accumulator) Message() message.Message {
	out := message.Message{Role: message.RoleAssistant}
	if a.info != nil && a.info.Role != "" {
		out.Role = a.info.Role
	}
	for _, idx := range a.order {
		out.Content = append(out.Content, *a.blocks[idx])
	}
	return out
}

// StopReason returns the final stop reason seen, if any.
func (a *Accumulator) StopReason() message.StopReason {
	return a.stopReason
}

// Usage returns the trailing usage counters, zero if none arrived.
func (a *Accumulator) Usage() message.Usage {
	return a.usage
}
