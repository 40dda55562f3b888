package wire

// Frame is one raw streaming event from the gateway. Exactly one field
// is set per frame; the gateway never batches.
type Frame struct {
	MessageStart      *MessageStartFrame `json:"messageStart,omitempty"`
	ContentBlockStart *BlockStartFrame   `json:"contentBlockStart,omitempty"`
	ContentBlockDelta *BlockDeltaFrame   `json:"contentBlockDelta,omitempty"`
	ContentBlockStop  *BlockStopFrame    `json:"contentBlockStop,omitempty"`
	MessageStop       *MessageStopFrame  `json:"messageStop,omitempty"`
	Metadata          *MetadataFrame     `json:"metadata,omitempty"`
}

// MessageStartFrame opens a streamed reply. The gateway omits the
// message id, model, and usage the canonical envelope carries.
type MessageStartFrame struct {
	ID   string `json:"id,omitempty"`
	Role string `json:"role,omitempty"`
}

// BlockStartFrame opens one content block.
type BlockStartFrame struct {
	ContentBlockIndex int         `json:"contentBlockIndex"`
	Start             *BlockStart `json:"start,omitempty"`
}

// BlockStart carries the opening payload of a non-text block.
type BlockStart struct {
	ToolUse *ToolUse `json:"toolUse,omitempty"`
}

// BlockDeltaFrame carries incremental block content.
type BlockDeltaFrame struct {
	ContentBlockIndex int   `json:"contentBlockIndex"`
	Delta             Delta `json:"delta"`
}

// Delta is incremental text or partial tool input.
type Delta struct {
	Text    string        `json:"text,omitempty"`
	ToolUse *ToolUseDelta `json:"toolUse,omitempty"`
}

// ToolUseDelta is a fragment of a tool invocation's JSON input.
type ToolUseDelta struct {
	Input string `json:"input,omitempty"`
}

// BlockStopFrame closes one content block.
type BlockStopFrame struct {
	ContentBlockIndex int `json:"contentBlockIndex"`
}

// MessageStopFrame closes the streamed reply.
type MessageStopFrame struct {
	StopReason string `json:"stopReason,omitempty"`
}

// MetadataFrame trails the stream with token accounting.
type MetadataFrame struct {
	Usage Usage `json:"usage"`
}
