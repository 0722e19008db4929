package domain

import "time"

// SessionEventType defines the kind of event delivered to a log stream.
type SessionEventType string

const (
	SessionEventLog    SessionEventType = "log"
	SessionEventStatus SessionEventType = "status"
	SessionEventClose  SessionEventType = "close"
)

// PushStatus is the lifecycle status reported on a session.
type PushStatus string

const (
	PushStatusStarting  PushStatus = "starting"
	PushStatusCompleted PushStatus = "completed"
	PushStatusError     PushStatus = "error"
)

// SessionEvent is one frame forwarded to the stream registered under a session id.
type SessionEvent struct {
	ID        string           `json:"id,omitempty"`
	Type      SessionEventType `json:"type"`
	Message   string           `json:"message,omitempty"`
	Status    PushStatus       `json:"status,omitempty"`
	Timestamp time.Time        `json:"time"`
}

// LogEvent creates a log event.
func LogEvent(message string) SessionEvent {
	return SessionEvent{Type: SessionEventLog, Message: message, Timestamp: time.Now()}
}

// StatusEvent creates a status event.
func StatusEvent(status PushStatus) SessionEvent {
	return SessionEvent{Type: SessionEventStatus, Status: status, Timestamp: time.Now()}
}

// CloseEvent creates the terminal event of a session.
func CloseEvent() SessionEvent {
	return SessionEvent{Type: SessionEventClose, Timestamp: time.Now()}
}
