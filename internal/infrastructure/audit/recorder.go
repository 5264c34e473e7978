// Package audit keeps the recent audit trail of the console.
package audit

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/admin-console/internal/core/domain"
	"github.com/sirpyerre/admin-console/internal/pkg/metrics"
)

const defaultCapacity = 500

// Recorder holds the last capacity events in a ring buffer and mirrors each
// one to the structured log.
type Recorder struct {
	mu     sync.RWMutex
	events []domain.AuditEvent
	next   int
	full   bool
	log    zerolog.Logger
}

// NewRecorder returns a Recorder. A non-positive capacity uses the default of 500.
func NewRecorder(capacity int, log zerolog.Logger) *Recorder {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Recorder{
		events: make([]domain.AuditEvent, capacity),
		log:    log.With().Str("component", "audit").Logger(),
	}
}

func (r *Recorder) Record(_ context.Context, event domain.AuditEvent) error {
	r.mu.Lock()
	r.events[r.next] = event
	r.next = (r.next + 1) % len(r.events)
	if r.next == 0 {
		r.full = true
	}
	r.mu.Unlock()

	metrics.AuditEventsTotal.WithLabelValues(string(event.Action)).Inc()
	r.log.Info().
		Str("action", string(event.Action)).
		Str("user_id", event.UserID).
		Str("username", event.Username).
		Str("actor", event.Actor).
		Time("at", event.At).
		Msg("audit")
	return nil
}

// Recent returns up to limit events, newest first. limit <= 0 returns all retained events.
func (r *Recorder) Recent(_ context.Context, limit int) []domain.AuditEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	size := r.next
	if r.full {
		size = len(r.events)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]domain.AuditEvent, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (r.next - i + len(r.events)) % len(r.events)
		out = append(out, r.events[idx])
	}
	return out
}
