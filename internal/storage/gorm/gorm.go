// Package gormstorage implements the storage.Backend interface on top of any
// GORM dialect. Session rows are written immediately so that events can
// reference them; events and drive samples are queued and written in batches.
package gormstorage

import (
	"errors"
	"fmt"

	"github.com/refugestudios/racing-game/internal/database"
	"github.com/refugestudios/racing-game/internal/model"
	"github.com/refugestudios/racing-game/internal/model/convert"
	"github.com/refugestudios/racing-game/internal/queue"
	"github.com/refugestudios/racing-game/pkg/core"

	"gorm.io/gorm"
)

// DefaultBatchSize is used when Options.BatchSize is not positive.
const DefaultBatchSize = 256

// ErrNoSession is returned when recording outside StartSession/EndSession.
var ErrNoSession = errors.New("no session started")

// Options tunes the writer.
type Options struct {
	// BatchSize is the number of queued rows that triggers a write.
	BatchSize int
}

// queues holds all the write queues for batch DB insertion.
type queues struct {
	Events  *queue.Queue[model.SessionEvent]
	Samples *queue.Queue[model.DriveSample]
}

func newQueues() *queues {
	return &queues{
		Events:  queue.New[model.SessionEvent](),
		Samples: queue.New[model.DriveSample](),
	}
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
type Backend struct {
	db        *gorm.DB
	opts      Options
	queues    *queues
	sessionID uint
}

// New creates a backend over an open connection. The schema is migrated in Init.
func New(db *gorm.DB, opts Options) *Backend {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return &Backend{
		db:   db,
		opts: opts,
	}
}

// DB exposes the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.db
}

// Init creates the internal queues and migrates the schema.
func (b *Backend) Init() error {
	if b.db == nil {
		return fmt.Errorf("no database connection")
	}
	b.queues = newQueues()
	if err := database.Migrate(b.db); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	return nil
}

// Close writes anything still queued.
func (b *Backend) Close() error {
	return b.Flush()
}

// StartSession inserts the session row and assigns its ID.
func (b *Backend) StartSession(s *core.Session) error {
	row := convert.CoreToSession(*s)
	row.ID = 0
	if err := b.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert new session: %w", err)
	}
	s.ID = row.ID
	b.sessionID = row.ID
	return nil
}

// EndSession writes queued rows and stores the final session summary.
func (b *Backend) EndSession(s *core.Session) error {
	if b.sessionID == 0 {
		return ErrNoSession
	}
	flushErr := b.Flush()

	row := convert.CoreToSession(*s)
	row.ID = b.sessionID
	err := b.db.Model(&model.Session{ID: b.sessionID}).
		Select("EndTime", "Frames", "LocalID", "Trail", "TrailLength").
		Updates(&row).Error
	b.sessionID = 0
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return flushErr
}

// RecordSessionEvent converts and queues a session event.
func (b *Backend) RecordSessionEvent(e *core.SessionEvent) error {
	if b.sessionID == 0 {
		return ErrNoSession
	}
	row := convert.CoreToSessionEvent(*e)
	row.SessionID = b.sessionID
	b.queues.Events.Push(row)
	return b.flushIfFull()
}

// RecordDriveSample converts and queues a drive sample.
func (b *Backend) RecordDriveSample(s *core.DriveSample) error {
	if b.sessionID == 0 {
		return ErrNoSession
	}
	row := convert.CoreToDriveSample(*s)
	row.SessionID = b.sessionID
	b.queues.Samples.Push(row)
	return b.flushIfFull()
}

// Pending returns the number of rows waiting to be written.
func (b *Backend) Pending() int {
	if b.queues == nil {
		return 0
	}
	return b.queues.Events.Len() + b.queues.Samples.Len()
}

func (b *Backend) flushIfFull() error {
	if b.Pending() < b.opts.BatchSize {
		return nil
	}
	return b.Flush()
}

// Flush writes every queued row. Rows from a failed write are put back.
func (b *Backend) Flush() error {
	if b.queues == nil {
		return nil
	}
	return errors.Join(
		writeQueue(b.db, b.queues.Events, "session events"),
		writeQueue(b.db, b.queues.Samples, "drive samples"),
	)
}

// writeQueue writes all items from a queue to the database in a transaction.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string) error {
	items := q.Drain()
	if len(items) == 0 {
		return nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&items).Error
	})
	if err != nil {
		q.Requeue(items)
		return fmt.Errorf("error creating %s: %w", name, err)
	}
	return nil
}

// LoadSession reads a session with its events and samples, in recording order.
func (b *Backend) LoadSession(id uint) (core.SessionRecord, error) {
	var rec core.SessionRecord

	var s model.Session
	if err := b.db.First(&s, id).Error; err != nil {
		return rec, fmt.Errorf("failed to load session %d: %w", id, err)
	}
	rec.Session = convert.SessionToCore(s)

	var events []model.SessionEvent
	if err := b.db.Where("session_id = ?", id).Order("id").Find(&events).Error; err != nil {
		return rec, fmt.Errorf("failed to load session events: %w", err)
	}
	for _, e := range events {
		rec.Events = append(rec.Events, convert.SessionEventToCore(e))
	}

	var samples []model.DriveSample
	if err := b.db.Where("session_id = ?", id).Order("id").Find(&samples).Error; err != nil {
		return rec, fmt.Errorf("failed to load drive samples: %w", err)
	}
	for _, row := range samples {
		rec.Samples = append(rec.Samples, convert.DriveSampleToCore(row))
	}

	return rec, nil
}

// ListSessions returns the most recent sessions first.
func (b *Backend) ListSessions(limit int) ([]core.Session, error) {
	var rows []model.Session
	q := b.db.Order("start_time desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	out := make([]core.Session, 0, len(rows))
	for _, r := range rows {
		out = append(out, convert.SessionToCore(r))
	}
	return out, nil
}
