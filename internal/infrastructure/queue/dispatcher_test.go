package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/admin-console/internal/core/domain"
)

type collectingHandler struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	err    error
}

func (h *collectingHandler) Record(_ context.Context, e domain.AuditEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
	return h.err
}

func (h *collectingHandler) snapshot() []domain.AuditEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.AuditEvent(nil), h.events...)
}

func waitFor(t *testing.T, h *collectingHandler, n int) []domain.AuditEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := h.snapshot(); len(got) >= n {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, got %d", n, len(h.snapshot()))
	return nil
}

func TestDispatcher_PerUserOrdering(t *testing.T) {
	h := &collectingHandler{}
	d := NewDispatcher(4, h, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	actions := []domain.AuditAction{domain.AuditUserCreate, domain.AuditUserUpdate, domain.AuditUserPassword, domain.AuditUserDelete}
	for _, a := range actions {
		d.Publish(domain.AuditEvent{Action: a, Username: "alice"})
		d.Publish(domain.AuditEvent{Action: a, Username: "bob"})
	}

	got := waitFor(t, h, 2*len(actions))

	for _, user := range []string{"alice", "bob"} {
		var seen []domain.AuditAction
		for _, e := range got {
			if e.Username == user {
				seen = append(seen, e.Action)
			}
		}
		if len(seen) != len(actions) {
			t.Fatalf("%s: expected %d events, got %v", user, len(actions), seen)
		}
		for i := range actions {
			if seen[i] != actions[i] {
				t.Fatalf("%s: events out of order: %v", user, seen)
			}
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, &collectingHandler{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected default worker count, got %d", len(d.workers))
	}

	first := d.shardIndex("alice")
	for i := 0; i < 10; i++ {
		if d.shardIndex("alice") != first {
			t.Fatalf("shard index must be deterministic")
		}
	}
	if first < 0 || first >= defaultWorkers {
		t.Fatalf("shard index out of range: %d", first)
	}
}

func TestDispatcher_HandlerErrorDoesNotStopWorker(t *testing.T) {
	h := &collectingHandler{err: errors.New("boom")}
	d := NewDispatcher(1, h, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Publish(domain.AuditEvent{Action: domain.AuditLogin, Username: "a"})
	d.Publish(domain.AuditEvent{Action: domain.AuditLogout, Username: "a"})

	waitFor(t, h, 2)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	d := NewDispatcher(1, &collectingHandler{}, zerolog.Nop())

	// Not started: nothing drains the channel.
	for i := 0; i < channelBuffer+10; i++ {
		d.Publish(domain.AuditEvent{Action: domain.AuditLogin, Username: "a"})
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected channel to hold %d events, got %d", channelBuffer, got)
	}
}

func TestDispatcher_StopsOnCancel(t *testing.T) {
	d := NewDispatcher(2, &collectingHandler{}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		d.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("workers did not stop after cancel")
	}
}
