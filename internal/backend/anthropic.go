package backend

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/Sn1r/shannon/internal/errs"
	"github.com/Sn1r/shannon/internal/message"
)

// Anthropic talks the agent-oriented chat protocol through the official
// SDK. It is synchronous-only; the driver falls back to Send when a
// backend has no streaming capability.
type Anthropic struct {
	client *anthropic.Client
}

// NewAnthropic builds the adapter. An empty apiKey defers to the SDK's
// own credential lookup.
func NewAnthropic(apiKey string) *Anthropic {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	c := anthropic.NewClient(opts...)
	return &Anthropic{client: &c}
}

func (a *Anthropic) Name() string { return "anthropic" }

// Send performs one round trip against the messages API.
func (a *Anthropic) Send(ctx context.Context, req *Request) (*TurnOutcome, error) {
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: maxTokens,
		Messages:  toAnthropicMessages(req.Messages),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if len(req.Tools) > 0 {
		params.Tools = toAnthropicTools(req.Tools)
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, errs.WrapProvider(a.Name(), err)
	}

	outcome := &TurnOutcome{
		Message:    message.Message{Role: message.RoleAssistant},
		Model:      string(resp.Model),
		StopReason: message.StopReason(resp.StopReason),
		Usage: message.Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
	}
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			outcome.Message.Content = append(outcome.Message.Content, message.TextBlock(block.Text))
		case "tool_use":
			toolUse := block.AsToolUse()
			outcome.Message.Content = append(outcome.Message.Content, message.ContentBlock{
				Type: message.BlockToolUse,
				ToolUse: &message.ToolUse{
					ID:    toolUse.ID,
					Name:  toolUse.Name,
					Input: toolUse.Input,
				},
			})
		default:
			outcome.Message.Content = append(outcome.Message.Content, message.ContentBlock{
				Type: message.BlockOpaque,
				Raw:  json.RawMessage(block.RawJSON()),
			})
		}
	}

	return outcome, nil
}

func toAnthropicMessages(msgs []message.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(m.Content))
		for _, b := range m.Content {
			blocks = append(blocks, toAnthropicBlock(b))
		}
		if len(blocks) == 0 {
			continue
		}
		if m.Role == message.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		} else {
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}
	return out
}

func toAnthropicBlock(b message.ContentBlock) anthropic.ContentBlockParamUnion {
	switch b.Type {
	case message.BlockText:
		return anthropic.NewTextBlock(b.Text)

	case message.BlockToolUse:
		if b.ToolUse == nil {
			return anthropic.NewTextBlock("")
		}
		var input map[string]interface{}
		_ = json.Unmarshal(b.ToolUse.Input, &input)
		return anthropic.NewToolUseBlock(b.ToolUse.ID, input, b.ToolUse.Name)

	case message.BlockToolResult:
		if b.ToolResult == nil {
			return anthropic.NewTextBlock("")
		}
		// Text-only on this path; the messages API helper takes a string.
		var text string
		for _, part := range b.ToolResult.Content {
			if part.Type == message.BlockText {
				text += part.Text
			}
		}
		return anthropic.NewToolResultBlock(b.ToolResult.ToolUseID, text, b.ToolResult.IsError)

	case message.BlockImage:
		if b.Image == nil {
			return anthropic.NewTextBlock("")
		}
		format := b.Image.Format
		if format == "" {
			format = message.DefaultImageFormat
		}
		encoded := base64.StdEncoding.EncodeToString(b.Image.Data)
		return anthropic.NewImageBlockBase64("image/"+format, encoded)

	case message.BlockOpaque:
		return anthropic.NewTextBlock(string(b.Raw))

	default:
		raw, _ := json.Marshal(b)
		return anthropic.NewTextBlock(string(raw))
	}
}

func toAnthropicTools(tools []ToolDef) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, len(tools))
	for i, td := range tools {
		props, _ := td.InputSchema["properties"].(map[string]interface{})
		schema := anthropic.ToolInputSchemaParam{
			Properties: props,
		}
		if req, ok := td.InputSchema["required"].([]interface{}); ok {
			required := make([]string, len(req))
			for j, r := range req {
				required[j], _ = r.(string)
			}
			schema.Required = required
		}
		t := anthropic.ToolUnionParamOfTool(schema, td.Name)
		if td.Description != "" {
			t.OfTool.Description = param.NewOpt(td.Description)
		}
		out[i] = t
	}
	return out
}
