package cost

import (
	"testing"

	"github.com/Sn1r/shannon/internal/message"
)

func TestEmptyTranscriptIsFree(t *testing.T) {
	e := New(0, 0)
	if got := e.Estimate(&message.Transcript{}); got != 0 {
		t.Fatalf("empty transcript should cost nothing, got %f", got)
	}
	if got := e.Estimate(nil); got != 0 {
		t.Fatalf("nil transcript should cost nothing, got %f", got)
	}
}

func TestDefaultRates(t *testing.T) {
	e := New(0, 0)
	var tr message.Transcript
	tr.Append(message.NewTextMessage(message.RoleUser, "hi"))

	want := float64(DefaultTokensPerBlock) / 1e6 * DefaultPricePerMTok
	if got := e.Estimate(&tr); got != want {
		t.Fatalf("one block at defaults: want %f, got %f", want, got)
	}
}

func TestScalesWithBlocks(t *testing.T) {
	e := New(100, 10)
	var tr message.Transcript
	tr.Append(message.Message{
		Role: message.RoleAssistant,
		Content: []message.ContentBlock{
			message.TextBlock("a"),
			message.TextBlock("b"),
			message.TextBlock("c"),
		},
	})

	// 3 blocks * 100 tokens, at $10 per million
	want := float64(300) / 1_000_000 * 10
	if got := e.Estimate(&tr); got != want {
		t.Fatalf("want %f, got %f", want, got)
	}
}

func TestMonotonicInBlocks(t *testing.T) {
	e := New(0, 0)
	var tr message.Transcript
	prev := e.Estimate(&tr)
	for i := 0; i < 5; i++ {
		tr.Append(message.NewTextMessage(message.RoleAssistant, "turn"))
		cur := e.Estimate(&tr)
		if cur <= prev {
			t.Fatalf("estimate must grow with the transcript: %f then %f", prev, cur)
		}
		prev = cur
	}
}
