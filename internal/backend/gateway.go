package backend

import (
	"context"
	"encoding/json"

	"github.com/Sn1r/shannon/internal/errs"
	"github.com/Sn1r/shannon/internal/message"
	"github.com/Sn1r/shannon/internal/stream"
	"github.com/Sn1r/shannon/internal/wire"
)

// GatewayAPI is the raw network surface of the inference gateway: one
// synchronous invoke and one streaming invoke. The handle is already
// authenticated by the credential resolver; this package never touches
// credentials itself.
type GatewayAPI interface {
	Invoke(ctx context.Context, req *wire.Request) (*wire.Response, error)
	InvokeStream(ctx context.Context, req *wire.Request) (stream.FrameSource, error)
}

// Gateway adapts the inference gateway's wire format to the canonical
// model: requests are transcoded out, replies transcoded back, and raw
// stream frames reassembled into canonical events.
type Gateway struct {
	api GatewayAPI
}

// NewGateway wraps an authenticated gateway handle.
func NewGateway(api GatewayAPI) *Gateway {
	return &Gateway{api: api}
}

func (g *Gateway) Name() string { return "gateway" }

// Send performs one synchronous round trip through the transcoder.
func (g *Gateway) Send(ctx context.Context, req *Request) (*TurnOutcome, error) {
	resp, err := g.api.Invoke(ctx, g.encodeRequest(req))
	if err != nil {
		return nil, errs.WrapProvider(g.Name(), err)
	}

	decoded := wire.DecodeMessage(resp.Output.Message)
	decoded.Role = message.RoleAssistant
	return &TurnOutcome{
		Message:    decoded,
		Model:      req.Model,
		StopReason: message.StopReason(resp.StopReason),
		Usage: message.Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
	}, nil
}

// Stream opens one streaming round trip. Frame-by-frame translation is
// delegated to the reassembler; a mid-stream error reaches the consumer
// with all previously emitted events standing.
func (g *Gateway) Stream(ctx context.Context, req *Request) (stream.Source, error) {
	frames, err := g.api.InvokeStream(ctx, g.encodeRequest(req))
	if err != nil {
		return nil, errs.WrapProvider(g.Name(), err)
	}
	return stream.NewReassembler(frames, req.Model), nil
}

func (g *Gateway) encodeRequest(req *Request) *wire.Request {
	out := &wire.Request{
		ModelID:  req.Model,
		Messages: wire.EncodeMessages(req.Messages),
		InferenceConfig: wire.InferenceConfig{
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
		},
	}
	if req.System != "" {
		out.System = []wire.SystemBlock{{Text: req.System}}
	}
	if len(req.Tools) > 0 {
		cfg := &wire.ToolConfig{}
		for _, td := range req.Tools {
			schema, _ := json.Marshal(td.InputSchema)
			cfg.Tools = append(cfg.Tools, wire.ToolSpec{
				Name:        td.Name,
				Description: td.Description,
				InputSchema: schema,
			})
		}
		out.ToolConfig = cfg
	}
	return out
}
