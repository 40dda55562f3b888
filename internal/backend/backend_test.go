package backend

import (
	"testing"

	"github.com/Sn1r/shannon/internal/errs"
)

var (
	_ Backend  = (*Anthropic)(nil)
	_ Backend  = (*Gateway)(nil)
	_ Streamer = (*Gateway)(nil)
)

func TestResolveAnthropic(t *testing.T) {
	b, err := Resolve(Config{Kind: "anthropic", APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if b.Name() != "anthropic" {
		t.Fatalf("unexpected backend: %s", b.Name())
	}
}

func TestResolveGateway(t *testing.T) {
	b, err := Resolve(Config{Kind: "gateway", BaseURL: "https://gw.example.com", APIKey: "token"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if b.Name() != "gateway" {
		t.Fatalf("unexpected backend: %s", b.Name())
	}
	if _, ok := b.(Streamer); !ok {
		t.Fatal("gateway backend should support streaming")
	}
}

func TestResolveErrors(t *testing.T) {
	// no kind, gateway without a base URL, unknown kind
	cases := []Config{
		{},
		{Kind: "gateway"},
		{Kind: "teleprompter"},
	}
	for _, cfg := range cases {
		b, err := Resolve(cfg)
		if err == nil {
			t.Errorf("Resolve(%+v) should fail", cfg)
			continue
		}
		if !errs.IsConfigError(err) {
			t.Errorf("Resolve(%+v) should fail with a config error, got %v", cfg, err)
		}
		if b != nil {
			t.Errorf("Resolve(%+v) returned a backend alongside its error", cfg)
		}
	}
}

func TestModelID(t *testing.T) {
	cases := []struct {
		kind, logical, want string
	}{
		{"anthropic", "sonnet", "claude-sonnet-4-20250514"},
		{"gateway", "sonnet", "anthropic.claude-sonnet-4-20250514-v1:0"},
		{"gateway", "haiku", "anthropic.claude-3-5-haiku-20241022-v1:0"},
		// empty falls back to the default model
		{"anthropic", "", "claude-sonnet-4-20250514"},
		// unknown names pass through as raw backend ids
		{"anthropic", "my-custom-model", "my-custom-model"},
		{"unknown-kind", "sonnet", "sonnet"},
	}
	for _, c := range cases {
		if got := ModelID(c.kind, c.logical); got != c.want {
			t.Errorf("ModelID(%q, %q) = %q, want %q", c.kind, c.logical, got, c.want)
		}
	}
}
