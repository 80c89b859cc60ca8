// internal/storage/storage.go
package storage

import "github.com/refugestudios/racing-game/pkg/core"

// Backend is the interface all storage implementations must satisfy.
// Calls arrive on the simulation thread in session order.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Session management (StartSession assigns ID to the passed pointer)
	StartSession(s *core.Session) error
	EndSession(s *core.Session) error

	// Recording
	RecordSessionEvent(e *core.SessionEvent) error
	RecordDriveSample(s *core.DriveSample) error
}

// Exporter is an optional interface for backends that write a file per session.
type Exporter interface {
	ExportedFilePath() string
}

// Reader is an optional interface for backends that can load past sessions.
type Reader interface {
	LoadSession(id uint) (core.SessionRecord, error)
}
