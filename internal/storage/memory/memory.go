// internal/storage/memory/memory.go
package memory

import (
	"errors"
	"sync"

	"github.com/refugestudios/racing-game/internal/config"
	"github.com/refugestudios/racing-game/pkg/core"
)

// ErrNoSession is returned when recording outside StartSession/EndSession.
var ErrNoSession = errors.New("no session started")

// MaxRetained is how many finished sessions stay loadable. Older ones are
// only available from their export files.
const MaxRetained = 4

// Backend stores session data in memory and exports each finished session to JSON
type Backend struct {
	cfg config.MemoryConfig

	current  *core.SessionRecord
	finished []core.SessionRecord

	idCounter      uint
	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartSession begins recording a new session
func (b *Backend) StartSession(s *core.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	s.ID = b.idCounter
	b.current = &core.SessionRecord{Session: *s}
	return nil
}

// EndSession finalizes the session and exports it. Exporting is skipped when
// no output directory is configured.
func (b *Backend) EndSession(s *core.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return ErrNoSession
	}
	b.current.Session = *s
	b.current.Session.ID = b.idCounter
	rec := *b.current
	if len(b.finished) == MaxRetained {
		b.finished[0] = core.SessionRecord{}
		b.finished = b.finished[1:]
	}
	b.finished = append(b.finished, rec)
	b.current = nil

	if b.cfg.OutputDir == "" {
		return nil
	}
	path, err := WriteExport(b.cfg.OutputDir, BuildExport(rec), b.cfg.CompressOutput)
	if err != nil {
		return err
	}
	b.lastExportPath = path
	return nil
}

// RecordSessionEvent stores a session event
func (b *Backend) RecordSessionEvent(e *core.SessionEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return ErrNoSession
	}
	e.SessionID = b.current.Session.ID
	b.current.Events = append(b.current.Events, *e)
	return nil
}

// RecordDriveSample stores a drive sample
func (b *Backend) RecordDriveSample(s *core.DriveSample) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return ErrNoSession
	}
	s.SessionID = b.current.Session.ID
	b.current.Samples = append(b.current.Samples, *s)
	return nil
}

// Sessions returns the retained finished sessions, oldest first.
func (b *Backend) Sessions() []core.SessionRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]core.SessionRecord, len(b.finished))
	copy(out, b.finished)
	return out
}

// LoadSession returns a finished session by ID.
func (b *Backend) LoadSession(id uint) (core.SessionRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, rec := range b.finished {
		if rec.Session.ID == id {
			return rec, nil
		}
	}
	return core.SessionRecord{}, errors.New("session not found")
}

// ExportedFilePath returns the path of the last exported session file
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
