package output

import (
	"encoding/json"
	"io"

	"github.com/Sn1r/shannon/internal/driver"
)

// jsonNotification is the JSON-lines envelope: a type tag plus the
// notification payload.
type jsonNotification struct {
	Type    string            `json:"type"`
	Init    *driver.Init      `json:"init,omitempty"`
	User    *driver.UserEcho  `json:"user,omitempty"`
	Message *driver.Assistant `json:"assistant,omitempty"`
	Result  *driver.Result    `json:"result,omitempty"`
}

// JSONWriter emits one JSON object per notification, one per line.
type JSONWriter struct {
	enc *json.Encoder
}

// NewJSONWriter wraps a writer for JSON-lines output.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{enc: json.NewEncoder(w)}
}

// Notify serializes one notification.
func (j *JSONWriter) Notify(n driver.Notification) error {
	var env jsonNotification
	switch v := n.(type) {
	case driver.Init:
		env = jsonNotification{Type: "init", Init: &v}
	case driver.UserEcho:
		env = jsonNotification{Type: "user", User: &v}
	case driver.Assistant:
		env = jsonNotification{Type: "assistant", Message: &v}
	case driver.Result:
		env = jsonNotification{Type: "result", Result: &v}
	default:
		return nil
	}
	return j.enc.Encode(env)
}
