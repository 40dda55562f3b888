// Package bus fans notifications out from the pulling loop to its
// observers (printer, session recorder, TUI bridge) without coupling
// them to each other.
package bus

import (
	"sync"
	"time"

	"github.com/Sn1r/shannon/internal/driver"
)

// Envelope wraps a notification with its receipt time and session.
type Envelope struct {
	SessionID    string
	Notification driver.Notification
	Time         time.Time
}

// Handler receives one envelope.
type Handler func(Envelope)

// Bus is a synchronous fan-out with a bounded history.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	history  []Envelope
	maxHist  int
}

// New creates a bus keeping at most maxHistory envelopes.
func New(maxHistory int) *Bus {
	if maxHistory <= 0 {
		maxHistory = 1000
	}
	return &Bus{maxHist: maxHistory}
}

// Subscribe registers a handler for every published envelope.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish records and delivers one notification. Handlers run in
// subscription order on the publisher's goroutine, preserving the
// driver's chronological ordering.
func (b *Bus) Publish(sessionID string, n driver.Notification) {
	env := Envelope{SessionID: sessionID, Notification: n, Time: time.Now()}

	b.mu.Lock()
	b.history = append(b.history, env)
	if len(b.history) > b.maxHist {
		b.history = b.history[len(b.history)-b.maxHist:]
	}
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.Unlock()

	for _, h := range handlers {
		h(env)
	}
}

// History returns the last n envelopes (all of them if n <= 0).
func (b *Bus) History(n int) []Envelope {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if n <= 0 || n > len(b.history) {
		n = len(b.history)
	}
	start := len(b.history) - n
	out := make([]Envelope, n)
	copy(out, b.history[start:])
	return out
}
