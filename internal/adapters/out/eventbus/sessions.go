// Package eventbus implements the session log broadcaster: an in-memory
// registry of log streams keyed by client-supplied session ids.
package eventbus

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/regdash/regdash/internal/boundaries/in"
	"github.com/regdash/regdash/internal/domain"
)

// SessionBus routes session events to the subscription registered under
// their session id. At most one subscription exists per id.
type SessionBus struct {
	mu   sync.Mutex
	subs map[string]*Subscription
	log  *log.Logger
}

// NewSessionBus creates an empty session bus.
func NewSessionBus(log *log.Logger) *SessionBus {
	return &SessionBus{
		subs: make(map[string]*Subscription),
		log:  log,
	}
}

// Register creates the subscription for sessionID. An existing subscription
// for the same id receives a close event and is replaced; this is a caller
// error and is logged as such.
func (b *SessionBus) Register(sessionID string) *Subscription {
	sub := newSubscription(sessionID)

	b.mu.Lock()
	prev := b.subs[sessionID]
	b.subs[sessionID] = sub
	total := len(b.subs)
	b.mu.Unlock()

	if prev != nil {
		b.release(prev)
		b.log.Warn("session listener replaced, closing previous stream", "session", sessionID)
	}
	b.log.Debug("session registered", "session", sessionID, "total_sessions", total)

	return sub
}

// Unregister removes sub if it is still the subscription of its session.
func (b *SessionBus) Unregister(sub *Subscription) {
	b.mu.Lock()
	if cur, ok := b.subs[sub.id]; ok && cur == sub {
		delete(b.subs, sub.id)
	}
	total := len(b.subs)
	b.mu.Unlock()

	sub.close()
	b.log.Debug("session unregistered", "session", sub.id, "total_sessions", total)
}

// Subscribe registers a stream reader for sessionID.
func (b *SessionBus) Subscribe(sessionID string) in.SessionStream {
	return b.Register(sessionID)
}

// Unsubscribe releases a stream obtained from Subscribe.
func (b *SessionBus) Unsubscribe(stream in.SessionStream) {
	if sub, ok := stream.(*Subscription); ok {
		b.Unregister(sub)
	}
}

// Emit delivers event to the subscription of sessionID. Unknown sessions are
// ignored. Emit never blocks on the reader. A close event releases the session.
func (b *SessionBus) Emit(sessionID string, event domain.SessionEvent) {
	if sessionID == "" {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	b.mu.Lock()
	sub := b.subs[sessionID]
	if sub != nil && event.Type == domain.SessionEventClose {
		delete(b.subs, sessionID)
	}
	b.mu.Unlock()

	if sub == nil {
		b.log.Debug("no listener for session, dropping event", "session", sessionID, "type", event.Type)
		return
	}

	sub.push(event)
	if event.Type == domain.SessionEventClose {
		sub.close()
	}
}

// Sessions returns the number of registered sessions.
func (b *SessionBus) Sessions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// CloseAll sends a close event to every subscription and closes it. Used on
// shutdown.
func (b *SessionBus) CloseAll() {
	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[string]*Subscription)
	b.mu.Unlock()

	for _, sub := range subs {
		b.release(sub)
	}
	b.log.Info("closed session streams", "count", len(subs))
}

// release ends sub with a terminal close event. Unregister skips it: the
// reader is already gone.
func (b *SessionBus) release(sub *Subscription) {
	event := domain.CloseEvent()
	event.ID = uuid.NewString()
	sub.push(event)
	sub.close()
}

// Subscription is the receiving end of one session. Events are queued
// without bound and read in emission order.
type Subscription struct {
	id     string
	mu     sync.Mutex
	queue  []domain.SessionEvent
	closed bool
	ready  chan struct{}
}

func newSubscription(id string) *Subscription {
	return &Subscription{
		id:    id,
		ready: make(chan struct{}, 1),
	}
}

// ID returns the session id of the subscription.
func (s *Subscription) ID() string {
	return s.id
}

// Ready is signalled whenever events were queued or the subscription closed.
func (s *Subscription) Ready() <-chan struct{} {
	return s.ready
}

// Drain returns the queued events and whether the subscription is still open.
// Events queued before close are still returned.
func (s *Subscription) Drain() ([]domain.SessionEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.queue
	s.queue = nil
	return events, !s.closed
}

func (s *Subscription) push(event domain.SessionEvent) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, event)
	s.mu.Unlock()
	s.signal()
}

func (s *Subscription) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.signal()
}

func (s *Subscription) signal() {
	select {
	case s.ready <- struct{}{}:
	default:
	}
}
