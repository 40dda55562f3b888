// Package message defines the canonical conversation model: roles,
// content blocks, messages, and the append-only transcript a single
// conversation run accumulates.
package message

import "encoding/json"

// Role identifies the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// StopReason is the backend's classification of why generation ended.
type StopReason string

const (
	StopEndTurn   StopReason = "end_turn"
	StopSequence  StopReason = "stop_sequence"
	StopToolUse   StopReason = "tool_use"
	StopMaxTokens StopReason = "max_tokens"
)

// BlockType discriminates the ContentBlock union.
type BlockType string

const (
	BlockText       BlockType = "text"
	BlockToolUse    BlockType = "tool_use"
	BlockToolResult BlockType = "tool_result"
	BlockImage      BlockType = "image"
	// BlockOpaque preserves content the decoder didn't recognize.
	// Never dropped, never an error.
	BlockOpaque BlockType = "opaque"
)

// DefaultImageFormat is used when an image block carries no format.
const DefaultImageFormat = "png"

// ToolUse is the model requesting a tool invocation. ID is unique within
// a run and is the only link to a later ToolResult.
type ToolUse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input,omitempty"`
}

// ToolResult answers a prior ToolUse. Content is restricted to text and
// image blocks.
type ToolResult struct {
	ToolUseID string         `json:"tool_use_id"`
	Content   []ContentBlock `json:"content,omitempty"`
	IsError   bool           `json:"is_error,omitempty"`
}

// Image is inline image data.
type Image struct {
	Format string `json:"format,omitempty"`
	Data   []byte `json:"data,omitempty"`
}

// ContentBlock is one typed unit of message content. Exactly one of the
// payload fields matching Type is set.
type ContentBlock struct {
	Type       BlockType       `json:"type"`
	Text       string          `json:"text,omitempty"`
	ToolUse    *ToolUse        `json:"tool_use,omitempty"`
	ToolResult *ToolResult     `json:"tool_result,omitempty"`
	Image      *Image          `json:"image,omitempty"`
	Raw        json.RawMessage `json:"raw,omitempty"`
}

// TextBlock builds a text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockText, Text: text}
}

// Message is one conversation turn. Immutable once appended to a
// Transcript.
type Message struct {
	Role    Role           `json:"role"`
	Content []ContentBlock `json:"content"`
}

// NewTextMessage builds a single-text-block message.
func NewTextMessage(role Role, text string) Message {
	return Message{Role: role, Content: []ContentBlock{TextBlock(text)}}
}

// Text concatenates the message's text blocks.
func (m Message) Text() string {
	var out string
	for _, b := range m.Content {
		if b.Type == BlockText {
			out += b.Text
		}
	}
	return out
}

// HasToolUse reports whether any block is a tool invocation.
func (m Message) HasToolUse() bool {
	for _, b := range m.Content {
		if b.Type == BlockToolUse {
			return true
		}
	}
	return false
}

// Usage tracks token consumption, accumulated across turns. Never
// decreases.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Add accumulates another turn's counters.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

// Transcript is the append-only ordered history of one run. It is owned
// and mutated by exactly one driver instance.
type Transcript struct {
	messages []Message
}

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(m Message) {
	t.messages = append(t.messages, m)
}

// Messages returns a copy of the transcript's messages.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages appended so far.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Blocks returns the total content-block count across all messages.
func (t *Transcript) Blocks() int {
	n := 0
	for _, m := range t.messages {
		n += len(m.Content)
	}
	return n
}
