package in

import "github.com/regdash/regdash/internal/domain"

// SessionStream is the receiving end of one session's events.
type SessionStream interface {
	ID() string
	// Ready is signalled whenever events are queued or the stream closes.
	Ready() <-chan struct{}
	// Drain returns the queued events and whether the stream is still open.
	Drain() ([]domain.SessionEvent, bool)
}

// SessionSubscriber attaches event stream readers to sessions.
type SessionSubscriber interface {
	Subscribe(sessionID string) SessionStream
	Unsubscribe(stream SessionStream)
}
