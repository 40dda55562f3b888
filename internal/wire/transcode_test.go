package wire

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/Sn1r/shannon/internal/message"
)

func canonicalFixture() message.Message {
	return message.Message{
		Role: message.RoleAssistant,
		Content: []message.ContentBlock{
			message.TextBlock("hello"),
			{
				Type: message.BlockToolUse,
				ToolUse: &message.ToolUse{
					ID:    "tu_1",
					Name:  "search",
					Input: json.RawMessage(`{"query":"go"}`),
				},
			},
			{
				Type: message.BlockToolResult,
				ToolResult: &message.ToolResult{
					ToolUseID: "tu_1",
					Content: []message.ContentBlock{
						message.TextBlock("three results"),
						{Type: message.BlockImage, Image: &message.Image{Format: "png", Data: []byte{0x89, 0x50}}},
					},
				},
			},
			{
				Type:  message.BlockImage,
				Image: &message.Image{Format: "jpeg", Data: []byte{0xFF, 0xD8}},
			},
		},
	}
}

func TestRoundTripCanonicalKinds(t *testing.T) {
	original := canonicalFixture()
	decoded := DecodeMessage(EncodeMessage(original))
	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round trip not identity:\n  in:  %+v\n  out: %+v", original, decoded)
	}
}

func TestRoundTripErrorToolResult(t *testing.T) {
	original := message.Message{
		Role: message.RoleUser,
		Content: []message.ContentBlock{{
			Type: message.BlockToolResult,
			ToolResult: &message.ToolResult{
				ToolUseID: "tu_9",
				Content:   []message.ContentBlock{message.TextBlock("boom")},
				IsError:   true,
			},
		}},
	}
	decoded := DecodeMessage(EncodeMessage(original))
	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("error tool result did not survive: %+v", decoded)
	}
}

func TestEncodeImageDefaultsFormat(t *testing.T) {
	m := message.Message{
		Role:    message.RoleUser,
		Content: []message.ContentBlock{{Type: message.BlockImage, Image: &message.Image{Data: []byte{1}}}},
	}
	encoded := EncodeMessage(m)
	if encoded.Content[0].Image == nil {
		t.Fatal("expected image block")
	}
	if encoded.Content[0].Image.Format != message.DefaultImageFormat {
		t.Fatalf("expected default format, got %q", encoded.Content[0].Image.Format)
	}
}

func TestEncodeUnknownKindSerializesToText(t *testing.T) {
	m := message.Message{
		Role:    message.RoleAssistant,
		Content: []message.ContentBlock{{Type: "thinking", Text: "hmm"}},
	}
	encoded := EncodeMessage(m)
	if encoded.Content[0].Text == nil {
		t.Fatal("unknown kind should become a text payload")
	}
	if !strings.Contains(*encoded.Content[0].Text, "thinking") {
		t.Fatalf("serialized form should mention the original kind, got %q", *encoded.Content[0].Text)
	}
}

func TestEncodeOpaqueBecomesText(t *testing.T) {
	m := message.Message{
		Role:    message.RoleAssistant,
		Content: []message.ContentBlock{{Type: message.BlockOpaque, Raw: json.RawMessage(`{"x":1}`)}},
	}
	encoded := EncodeMessage(m)
	if encoded.Content[0].Text == nil || *encoded.Content[0].Text != `{"x":1}` {
		t.Fatalf("opaque should encode to its raw text, got %+v", encoded.Content[0])
	}
}

func TestEncodeNilPayloadsNeverPanic(t *testing.T) {
	m := message.Message{
		Role: message.RoleAssistant,
		Content: []message.ContentBlock{
			{Type: message.BlockToolUse},
			{Type: message.BlockToolResult},
			{Type: message.BlockImage},
		},
	}
	encoded := EncodeMessage(m)
	if len(encoded.Content) != 3 {
		t.Fatalf("expected all blocks encoded, got %d", len(encoded.Content))
	}
}

func TestDecodeUnrecognizedBlockYieldsOpaque(t *testing.T) {
	decoded := DecodeMessage(Message{
		Role:    "assistant",
		Content: []Block{{}}, // no recognized field set
	})
	if decoded.Content[0].Type != message.BlockOpaque {
		t.Fatalf("expected opaque, got %s", decoded.Content[0].Type)
	}
	if len(decoded.Content[0].Raw) == 0 {
		t.Fatal("opaque block should preserve the raw shape")
	}
}

func TestDecodeEmptyRoleDefaultsToAssistant(t *testing.T) {
	decoded := DecodeMessage(Message{Content: []Block{}})
	if decoded.Role != message.RoleAssistant {
		t.Fatalf("expected assistant, got %s", decoded.Role)
	}
}

func TestEncodeMessagesPreservesOrder(t *testing.T) {
	msgs := []message.Message{
		message.NewTextMessage(message.RoleUser, "first"),
		message.NewTextMessage(message.RoleAssistant, "second"),
	}
	encoded := EncodeMessages(msgs)
	if len(encoded) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(encoded))
	}
	if encoded[0].Role != "user" || encoded[1].Role != "assistant" {
		t.Fatalf("roles out of order: %s, %s", encoded[0].Role, encoded[1].Role)
	}
	if *encoded[0].Content[0].Text != "first" {
		t.Fatalf("unexpected first message text %q", *encoded[0].Content[0].Text)
	}
}
