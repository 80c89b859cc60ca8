// pkg/core/session.go
package core

import "time"

// Session is one Init..Shutdown run of the module.
type Session struct {
	ID          uint
	GameID      string
	GameVersion string
	ScenePath   string
	StartTime   time.Time
	EndTime     time.Time
	Frames      uint
	LocalID     *uint64
	Trail       []TrailPoint
}

// EventKind names a session notification from the host.
type EventKind string

const (
	EventLocalReady EventKind = "local_ready"
	EventClientJoin EventKind = "client_join"
	EventDisconnect EventKind = "client_disconnect"
)

// SessionEvent records one session notification and whether it changed state.
// Rejected notifications are recorded too, with Applied false.
type SessionEvent struct {
	ID          uint
	SessionID   uint
	Time        time.Time
	Frame       uint
	Kind        EventKind
	ClientID    uint64
	Applied     bool
	EntityCount int
	ExtraData   map[string]any
}

// SessionRecord is a session together with everything recorded during it.
type SessionRecord struct {
	Session Session
	Events  []SessionEvent
	Samples []DriveSample
}
