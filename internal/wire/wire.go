// Package wire defines the inference gateway's converse-style wire
// format and the transcoder between it and the canonical message model.
package wire

import "encoding/json"

// Message is one wire-format conversation turn.
type Message struct {
	Role    string  `json:"role"`
	Content []Block `json:"content"`
}

// Block is the gateway's content-block union. Exactly one field is set
// on a well-formed block; a block with no recognized field decodes to an
// opaque canonical block.
type Block struct {
	Text       *string     `json:"text,omitempty"`
	ToolUse    *ToolUse    `json:"toolUse,omitempty"`
	ToolResult *ToolResult `json:"toolResult,omitempty"`
	Image      *Image      `json:"image,omitempty"`
}

// ToolUse is the gateway's tool-invocation payload.
type ToolUse struct {
	ToolUseID string          `json:"toolUseId"`
	Name      string          `json:"name"`
	Input     json.RawMessage `json:"input,omitempty"`
}

// ToolResult is keyed by the originating tool-use id. Its content is
// restricted to text and image parts.
type ToolResult struct {
	ToolUseID string       `json:"toolUseId"`
	Content   []ResultPart `json:"content,omitempty"`
	Status    string       `json:"status,omitempty"`
}

// ResultPart is one part of a tool result.
type ResultPart struct {
	Text  *string `json:"text,omitempty"`
	Image *Image  `json:"image,omitempty"`
}

// Image is an inline image payload.
type Image struct {
	Format string      `json:"format"`
	Source ImageSource `json:"source"`
}

// ImageSource carries raw image bytes.
type ImageSource struct {
	Bytes []byte `json:"bytes"`
}

// InferenceConfig bounds a single generation.
type InferenceConfig struct {
	MaxTokens   int     `json:"maxTokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// ToolSpec describes one tool the model may request.
type ToolSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// ToolConfig is the optional tool section of a request.
type ToolConfig struct {
	Tools []ToolSpec `json:"tools"`
}

// Request is the gateway's invoke envelope, shared by the synchronous
// and streaming operations.
type Request struct {
	ModelID         string          `json:"modelId"`
	Messages        []Message       `json:"messages"`
	System          []SystemBlock   `json:"system,omitempty"`
	InferenceConfig InferenceConfig `json:"inferenceConfig"`
	ToolConfig      *ToolConfig     `json:"toolConfig,omitempty"`
}

// SystemBlock is a system-prompt entry.
type SystemBlock struct {
	Text string `json:"text"`
}

// Response is the gateway's single-reply envelope.
type Response struct {
	Output     Output `json:"output"`
	StopReason string `json:"stopReason"`
	Usage      Usage  `json:"usage"`
}

// Output wraps the reply message.
type Output struct {
	Message Message `json:"message"`
}

// Usage is the gateway's token accounting.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}
