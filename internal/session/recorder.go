package session

import (
	"context"

	"github.com/Sn1r/shannon/internal/driver"
	"github.com/Sn1r/shannon/internal/message"
)

// Recorder persists a run as its notifications arrive. One recorder
// serves one run at a time; it trusts the driver's ordering (Init,
// UserEcho, Assistant*, Result).
type Recorder struct {
	db      *DB
	backend string
	model   string
	seq     int
}

// NewRecorder builds a recorder writing to db for the named backend.
func NewRecorder(db *DB, backendName string) *Recorder {
	return &Recorder{db: db, backend: backendName}
}

// Record persists one notification. Failures are returned so the caller
// can log them; they never interrupt the run.
func (r *Recorder) Record(ctx context.Context, sessionID string, n driver.Notification) error {
	switch v := n.(type) {
	case driver.Init:
		r.model = v.Model
		return nil

	case driver.UserEcho:
		if err := r.db.CreateRun(ctx, sessionID, v.Prompt, r.model, r.backend); err != nil {
			return err
		}
		r.seq = 0
		return r.append(ctx, sessionID, message.NewTextMessage(message.RoleUser, v.Prompt))

	case driver.Assistant:
		return r.append(ctx, sessionID, v.Message)

	case driver.Result:
		return r.db.FinishRun(ctx, sessionID, v.Subtype, v.Error, v.Success,
			v.Turns, v.CostUSD, v.Duration, v.Usage)

	default:
		return nil
	}
}

func (r *Recorder) append(ctx context.Context, sessionID string, m message.Message) error {
	err := r.db.AppendMessage(ctx, sessionID, r.seq, m)
	if err == nil {
		r.seq++
	}
	return err
}
