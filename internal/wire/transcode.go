package wire

import (
	"encoding/json"

	"github.com/Sn1r/shannon/internal/message"
)

// The transcoder is pure and total: encoding and decoding never fail for
// structurally valid input. Unrecognized shapes degrade to text (encode)
// or opaque blocks (decode) instead of being dropped.

// EncodeMessages transcodes a canonical transcript slice to wire format.
func EncodeMessages(msgs []message.Message) []Message {
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = EncodeMessage(m)
	}
	return out
}

// EncodeMessage transcodes one canonical message to wire format.
func EncodeMessage(m message.Message) Message {
	blocks := make([]Block, 0, len(m.Content))
	for _, b := range m.Content {
		blocks = append(blocks, encodeBlock(b))
	}
	return Message{Role: string(m.Role), Content: blocks}
}

func encodeBlock(b message.ContentBlock) Block {
	switch b.Type {
	case message.BlockText:
		text := b.Text
		return Block{Text: &text}

	case message.BlockToolUse:
		if b.ToolUse == nil {
			return textBlock("")
		}
		return Block{ToolUse: &ToolUse{
			ToolUseID: b.ToolUse.ID,
			Name:      b.ToolUse.Name,
			Input:     b.ToolUse.Input,
		}}

	case message.BlockToolResult:
		if b.ToolResult == nil {
			return textBlock("")
		}
		tr := &ToolResult{ToolUseID: b.ToolResult.ToolUseID}
		if b.ToolResult.IsError {
			tr.Status = "error"
		}
		for _, part := range b.ToolResult.Content {
			tr.Content = append(tr.Content, encodeResultPart(part))
		}
		return Block{ToolResult: tr}

	case message.BlockImage:
		if b.Image == nil {
			return textBlock("")
		}
		return Block{Image: encodeImage(b.Image)}

	case message.BlockOpaque:
		return textBlock(string(b.Raw))

	default:
		// Unknown block kinds are serialized rather than rejected.
		raw, err := json.Marshal(b)
		if err != nil {
			return textBlock("")
		}
		return textBlock(string(raw))
	}
}

func encodeResultPart(b message.ContentBlock) ResultPart {
	switch b.Type {
	case message.BlockImage:
		if b.Image != nil {
			return ResultPart{Image: encodeImage(b.Image)}
		}
	case message.BlockText:
		text := b.Text
		return ResultPart{Text: &text}
	}
	// Tool-result content is text-or-image only; anything else degrades
	// to its serialized form.
	raw, _ := json.Marshal(b)
	text := string(raw)
	return ResultPart{Text: &text}
}

func encodeImage(img *message.Image) *Image {
	format := img.Format
	if format == "" {
		format = message.DefaultImageFormat
	}
	return &Image{Format: format, Source: ImageSource{Bytes: img.Data}}
}

func textBlock(text string) Block {
	return Block{Text: &text}
}

// DecodeMessage transcodes one wire message back to the canonical model.
func DecodeMessage(m Message) message.Message {
	role := message.Role(m.Role)
	if role == "" {
		role = message.RoleAssistant
	}
	blocks := make([]message.ContentBlock, 0, len(m.Content))
	for _, b := range m.Content {
		blocks = append(blocks, decodeBlock(b))
	}
	return message.Message{Role: role, Content: blocks}
}

func decodeBlock(b Block) message.ContentBlock {
	switch {
	case b.Text != nil:
		return message.TextBlock(*b.Text)

	case b.ToolUse != nil:
		return message.ContentBlock{Type: message.BlockToolUse, ToolUse: &message.ToolUse{
			ID:    b.ToolUse.ToolUseID,
			Name:  b.ToolUse.Name,
			Input: b.ToolUse.Input,
		}}

	case b.ToolResult != nil:
		tr := &message.ToolResult{
			ToolUseID: b.ToolResult.ToolUseID,
			IsError:   b.ToolResult.Status == "error",
		}
		for _, part := range b.ToolResult.Content {
			tr.Content = append(tr.Content, decodeResultPart(part))
		}
		return message.ContentBlock{Type: message.BlockToolResult, ToolResult: tr}

	case b.Image != nil:
		return message.ContentBlock{Type: message.BlockImage, Image: &message.Image{
			Format: b.Image.Format,
			Data:   b.Image.Source.Bytes,
		}}

	default:
		// Nothing we recognize: keep the raw shape instead of dropping it.
		raw, err := json.Marshal(b)
		if err != nil {
			raw = []byte("{}")
		}
		return message.ContentBlock{Type: message.BlockOpaque, Raw: raw}
	}
}

func decodeResultPart(p ResultPart) message.ContentBlock {
	if p.Image != nil {
		return message.ContentBlock{Type: message.BlockImage, Image: &message.Image{
			Format: p.Image.Format,
			Data:   p.Image.Source.Bytes,
		}}
	}
	if p.Text != nil {
		return message.TextBlock(*p.Text)
	}
	return message.TextBlock("")
}
