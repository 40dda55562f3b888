package backend

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Sn1r/shannon/internal/errs"
	"github.com/Sn1r/shannon/internal/message"
	"github.com/Sn1r/shannon/internal/stream"
	"github.com/Sn1r/shannon/internal/wire"
)

// stubGatewayAPI records the last request and replies from canned data.
type stubGatewayAPI struct {
	lastReq *wire.Request
	resp    *wire.Response
	frames  []*wire.Frame
	err     error
}

func (s *stubGatewayAPI) Invoke(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func (s *stubGatewayAPI) InvokeStream(ctx context.Context, req *wire.Request) (stream.FrameSource, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &stubFrameSource{frames: s.frames}, nil
}

type stubFrameSource struct {
	frames []*wire.Frame
	pos    int
}

func (s *stubFrameSource) Next(ctx context.Context) (*wire.Frame, error) {
	if s.pos >= len(s.frames) {
		return nil, io.EOF
	}
	f := s.frames[s.pos]
	s.pos++
	return f, nil
}

func strptr(s string) *string { return &s }

func TestGatewaySend(t *testing.T) {
	api := &stubGatewayAPI{
		resp: &wire.Response{
			Output: wire.Output{Message: wire.Message{
				Role:    "assistant",
				Content: []wire.Block{{Text: strptr("the answer")}},
			}},
			StopReason: "end_turn",
			Usage:      wire.Usage{InputTokens: 12, OutputTokens: 5},
		},
	}
	g := NewGateway(api)

	out, err := g.Send(context.Background(), &Request{
		Model:     "anthropic.claude-sonnet-4-20250514-v1:0",
		System:    "be terse",
		Messages:  []message.Message{message.NewTextMessage(message.RoleUser, "question")},
		MaxTokens: 1024,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if out.Message.Role != message.RoleAssistant {
		t.Errorf("reply role: %s", out.Message.Role)
	}
	if out.Message.Text() != "the answer" {
		t.Errorf("reply text: %q", out.Message.Text())
	}
	if out.StopReason != message.StopEndTurn {
		t.Errorf("stop reason: %s", out.StopReason)
	}
	if out.Usage.InputTokens != 12 || out.Usage.OutputTokens != 5 {
		t.Errorf("usage: %+v", out.Usage)
	}

	// The outgoing request went through the transcoder.
	req := api.lastReq
	if req.ModelID != "anthropic.claude-sonnet-4-20250514-v1:0" {
		t.Errorf("model id: %s", req.ModelID)
	}
	if len(req.System) != 1 || req.System[0].Text != "be terse" {
		t.Errorf("system: %+v", req.System)
	}
	if len(req.Messages) != 1 || *req.Messages[0].Content[0].Text != "question" {
		t.Errorf("messages: %+v", req.Messages)
	}
	if req.InferenceConfig.MaxTokens != 1024 {
		t.Errorf("inference config: %+v", req.InferenceConfig)
	}
}

func TestGatewaySendError(t *testing.T) {
	api := &stubGatewayAPI{err: errors.New("403 forbidden")}
	g := NewGateway(api)

	_, err := g.Send(context.Background(), &Request{Model: "m"})
	if err == nil {
		t.Fatal("expected an error")
	}
	var pe *errs.ProviderError
	if !errors.As(err, &pe) || pe.Backend != "gateway" {
		t.Fatalf("expected a gateway-tagged provider error, got %v", err)
	}
}

func TestGatewayStream(t *testing.T) {
	api := &stubGatewayAPI{
		frames: []*wire.Frame{
			{MessageStart: &wire.MessageStartFrame{Role: "assistant"}},
			{ContentBlockStart: &wire.BlockStartFrame{ContentBlockIndex: 0}},
			{ContentBlockDelta: &wire.BlockDeltaFrame{
				ContentBlockIndex: 0,
				Delta:             wire.Delta{Text: "partial"},
			}},
			{MessageStop: &wire.MessageStopFrame{StopReason: "end_turn"}},
		},
	}
	g := NewGateway(api)

	src, err := g.Stream(context.Background(), &Request{Model: "model-g"})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}

	var kinds []stream.Kind
	for {
		ev, err := src.Next(context.Background())
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		kinds = append(kinds, ev.Kind)
	}

	want := []stream.Kind{
		stream.KindMessageStart,
		stream.KindBlockStart,
		stream.KindBlockDelta,
		stream.KindMessageStop,
	}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d events, got %d: %v", len(want), len(kinds), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event %d: want %s, got %s", i, want[i], kinds[i])
		}
	}
}

func TestGatewayStreamOpenError(t *testing.T) {
	api := &stubGatewayAPI{err: errors.New("connection refused")}
	g := NewGateway(api)

	if _, err := g.Stream(context.Background(), &Request{Model: "m"}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestGatewayToolConfig(t *testing.T) {
	api := &stubGatewayAPI{resp: &wire.Response{
		Output:     wire.Output{Message: wire.Message{Role: "assistant"}},
		StopReason: "end_turn",
	}}
	g := NewGateway(api)

	_, err := g.Send(context.Background(), &Request{
		Model: "m",
		Tools: []ToolDef{{
			Name:        "search",
			Description: "web search",
			InputSchema: map[string]interface{}{"type": "object"},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}

	cfg := api.lastReq.ToolConfig
	if cfg == nil || len(cfg.Tools) != 1 {
		t.Fatalf("tool config not encoded: %+v", cfg)
	}
	if cfg.Tools[0].Name != "search" {
		t.Errorf("tool name: %s", cfg.Tools[0].Name)
	}
	if string(cfg.Tools[0].InputSchema) != `{"type":"object"}` {
		t.Errorf("tool schema: %s", cfg.Tools[0].InputSchema)
	}
}
