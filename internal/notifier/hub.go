// Package notifier pushes typed refresh signals to connected clients.
//
// Delivery is best-effort and fire-and-forget: a signal to an account with
// no registered connection is silently dropped. Correctness never depends on
// delivery; clients reconcile by re-fetching the authoritative state.
package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/ceobank/ceo-bank/internal/domain"
	"github.com/rs/zerolog"
)

const (
	// writeWait bounds a single frame write; a peer that cannot take a
	// frame within it is treated as gone.
	writeWait = 10 * time.Second

	// sendBuffer is the per-connection queue of pending signals. A client
	// that far behind gets further signals dropped and reconciles on the
	// next one it does receive.
	sendBuffer = 16
)

// Conn is the write side of one live client connection.
// *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// slot owns one connection: signals are queued on a buffered channel and a
// single pump goroutine writes them out, so a peer that stops draining its
// socket never stalls the caller that produced the signal.
type slot struct {
	conn Conn

	mu     sync.Mutex
	ch     chan domain.Notification
	closed bool
}

func newSlot(conn Conn) *slot {
	s := &slot{
		conn: conn,
		ch:   make(chan domain.Notification, sendBuffer),
	}

	go s.writePump()

	return s
}

// send queues the signal without blocking. It reports false when the slot
// is stopped or its queue is full.
func (s *slot) send(n domain.Notification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- n:
		return true
	default:
		return false
	}
}

// stop closes the queue; the pump drains what is left, then closes the
// connection. Safe to call more than once.
func (s *slot) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

func (s *slot) writePump() {
	for n := range s.ch {
		_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))

		if err := s.conn.WriteJSON(n); err != nil {
			break
		}
	}

	_ = s.conn.Close()
}

// Hub is the connection registry: one active slot per account id.
// Connect, register and disconnect events mutate it; the transaction
// engine only reads it to decide delivery targets.
type Hub struct {
	mu    sync.RWMutex
	slots map[int32]*slot
}

// NewHub returns an empty connection registry.
func NewHub() *Hub {
	return &Hub{
		slots: make(map[int32]*slot),
	}
}

// Register binds a connection to an account id after its credential has
// been proven. A new registration supersedes any previous connection for
// the same account; the superseded one is closed.
func (h *Hub) Register(accountID int32, conn Conn) {
	h.mu.Lock()
	old, ok := h.slots[accountID]
	h.slots[accountID] = newSlot(conn)
	h.mu.Unlock()

	if ok {
		old.stop()
	}
}

// Unregister removes the connection from the registry. It is a no-op when
// another connection has already superseded this one.
func (h *Hub) Unregister(accountID int32, conn Conn) {
	h.mu.Lock()

	s, ok := h.slots[accountID]
	if ok && s.conn == conn {
		delete(h.slots, accountID)
	} else {
		s = nil
	}

	h.mu.Unlock()

	if s != nil {
		s.stop()
	}
}

// Notify queues one signal of the given kind for each target account that
// has a registered connection. Absent targets and full queues are logged
// and dropped, never surfaced to the caller.
func (h *Hub) Notify(ctx context.Context, kind domain.NotificationKind, accountIDs ...int32) {
	l := zerolog.Ctx(ctx)

	h.mu.RLock()
	targets := make(map[int32]*slot, len(accountIDs))
	for _, id := range accountIDs {
		if s, ok := h.slots[id]; ok {
			targets[id] = s
		}
	}
	h.mu.RUnlock()

	for id, s := range targets {
		if !s.send(domain.Notification{Type: kind}) {
			l.Info().Int32("account_id", id).Str("kind", string(kind)).
				Msg("dropped notification")
		}
	}
}

// Broadcast queues one signal of the given kind for every registered connection.
func (h *Hub) Broadcast(ctx context.Context, kind domain.NotificationKind) {
	l := zerolog.Ctx(ctx)

	h.mu.RLock()
	targets := make(map[int32]*slot, len(h.slots))
	for id, s := range h.slots {
		targets[id] = s
	}
	h.mu.RUnlock()

	for id, s := range targets {
		if !s.send(domain.Notification{Type: kind}) {
			l.Info().Int32("account_id", id).Str("kind", string(kind)).
				Msg("dropped notification")
		}
	}
}
