package core

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testManager(tb testing.TB, opts Options) *Manager {
	tb.Helper()

	logger := zerolog.Nop()
	return NewManager(NewRegistry(), &logger, opts)
}

// bindClient simulates an authenticated connection for an identity.
func bindClient(m *Manager, id, name string) *Client {
	c := NewClient(id + "-conn")
	m.Registry().Bind(c, id, name)
	return c
}

func mustEvent(tb testing.TB, ch <-chan *Event, kind EventKind) *Event {
	tb.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	tb.Fatalf("expected event kind %v not received", kind)
	return nil
}

// nextEvent pops the next queued event, failing if none arrives in time.
// Used where event order matters.
func nextEvent(t *testing.T, ch <-chan *Event) *Event {
	t.Helper()

	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return nil
	}
}

// drainEvents discards everything currently queued for a client.
func drainEvents(clients ...*Client) {
	for _, c := range clients {
	drain:
		for {
			select {
			case <-c.Events:
			default:
				break drain
			}
		}
	}
}

// queuedEvents counts events currently queued. Transitions enqueue
// synchronously, so this is exact once the transition returns.
func queuedEvents(c *Client) int {
	return len(c.Events)
}
