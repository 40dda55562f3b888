package session

import (
	"context"
	"testing"
	"time"

	"github.com/Sn1r/shannon/internal/driver"
	"github.com/Sn1r/shannon/internal/message"
)

func TestRecorderPersistsFullRun(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	rec := NewRecorder(db, "anthropic")

	sid := "session-1"
	notes := []driver.Notification{
		driver.Init{Model: "model-x", PermissionMode: "default", SessionID: sid},
		driver.UserEcho{Prompt: "hello"},
		driver.Assistant{
			Message: message.NewTextMessage(message.RoleAssistant, "hi there"),
			Model:   "model-x",
			Turn:    1,
		},
		driver.Result{
			Subtype:  driver.SubtypeSuccess,
			Success:  true,
			Turns:    1,
			Duration: 2 * time.Second,
			CostUSD:  0.001,
			Usage:    message.Usage{InputTokens: 8, OutputTokens: 4},
		},
	}
	for _, n := range notes {
		if err := rec.Record(ctx, sid, n); err != nil {
			t.Fatalf("record %T: %v", n, err)
		}
	}

	run, err := db.GetRun(ctx, sid)
	if err != nil {
		t.Fatal(err)
	}
	if run.Model != "model-x" || run.Backend != "anthropic" {
		t.Errorf("run metadata: %+v", run)
	}
	if run.Status != "done" || run.Turns != 1 || run.CostUSD != 0.001 {
		t.Errorf("run outcome: %+v", run)
	}

	msgs, err := db.Messages(ctx, sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected prompt + reply stored, got %d messages", len(msgs))
	}
	if msgs[0].Role != message.RoleUser || msgs[1].Role != message.RoleAssistant {
		t.Errorf("message roles: %s, %s", msgs[0].Role, msgs[1].Role)
	}
}

func TestRecorderFailedRun(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	rec := NewRecorder(db, "gateway")

	sid := "session-2"
	steps := []driver.Notification{
		driver.Init{Model: "m", SessionID: sid},
		driver.UserEcho{Prompt: "p"},
		driver.Result{
			Subtype: driver.SubtypeError,
			Success: false,
			Error:   "connection refused",
			Turns:   1,
		},
	}
	for _, n := range steps {
		if err := rec.Record(ctx, sid, n); err != nil {
			t.Fatalf("record %T: %v", n, err)
		}
	}

	run, err := db.GetRun(ctx, sid)
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != "failed" || run.Error != "connection refused" {
		t.Fatalf("failed run: %+v", run)
	}
	if run.Subtype != driver.SubtypeError {
		t.Fatalf("subtype: %s", run.Subtype)
	}
}
