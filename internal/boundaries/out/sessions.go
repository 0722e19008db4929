package out

import "github.com/regdash/regdash/internal/domain"

// SessionEmitter delivers events to the log stream registered under a session id.
// Emitting to an unknown session is a silent no-op and never blocks.
type SessionEmitter interface {
	Emit(sessionID string, event domain.SessionEvent)
}
