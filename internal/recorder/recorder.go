package recorder

import (
	"errors"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/refugestudios/racing-game/internal/geo"
	"github.com/refugestudios/racing-game/internal/storage"
	"github.com/refugestudios/racing-game/internal/telemetry"
	"github.com/refugestudios/racing-game/pkg/core"
	"github.com/rs/zerolog"
)

// DefaultTrailSpacing is the minimum ground distance between trail vertices.
const DefaultTrailSpacing = 0.05

// PointWriter accepts telemetry points.
type PointWriter interface {
	WritePoint(point *influxdb2_write.Point) error
}

// Dependencies holds everything the recorder fans out to. Backend and
// Telemetry may be nil.
type Dependencies struct {
	Backend      storage.Backend
	Telemetry    PointWriter
	Log          zerolog.Logger
	TrailSpacing float64
}

// Stats counts what the recorder has handled since it was created.
type Stats struct {
	Sessions int
	Events   int
	Samples  int
	Errors   int
}

// Recorder turns game lifecycle callbacks into stored sessions, events and
// drive samples. Failures are logged and counted, never returned, so the
// simulation keeps running when storage misbehaves.
type Recorder struct {
	deps    Dependencies
	log     zerolog.Logger
	session *core.Session
	trail   *geo.TrailBuilder
	stats   Stats
}

// New creates a recorder.
func New(deps Dependencies) *Recorder {
	if deps.TrailSpacing <= 0 {
		deps.TrailSpacing = DefaultTrailSpacing
	}
	return &Recorder{
		deps:  deps,
		log:   deps.Log.With().Str("component", "recorder").Logger(),
		trail: geo.NewTrailBuilder(deps.TrailSpacing),
	}
}

// Start opens a session. An open session is ended first.
func (r *Recorder) Start(s core.Session) {
	if r.session != nil {
		r.End(r.session.Frames, r.session.LocalID, time.Now())
	}

	r.session = &s
	r.trail.Reset()
	r.stats.Sessions++

	if r.deps.Backend != nil {
		if err := r.deps.Backend.StartSession(r.session); err != nil {
			r.fail(err, "failed to start session")
		}
	}
	r.log.Debug().Uint("sessionId", r.session.ID).Str("scene", s.ScenePath).Msg("session started")
}

// Active reports whether a session is open.
func (r *Recorder) Active() bool {
	return r.session != nil
}

// RecordEvent stores a session event in the open session.
func (r *Recorder) RecordEvent(e core.SessionEvent) {
	if r.session == nil {
		return
	}
	e.SessionID = r.session.ID
	r.stats.Events++

	if r.deps.Backend != nil {
		if err := r.deps.Backend.RecordSessionEvent(&e); err != nil {
			r.fail(err, "failed to record session event")
		}
	}
	if r.deps.Telemetry != nil {
		if err := r.deps.Telemetry.WritePoint(telemetry.SessionEventPoint(r.session.GameID, e)); err != nil {
			r.fail(err, "failed to write session event telemetry")
		}
	}
}

// RecordSample stores a drive sample and extends the trail.
func (r *Recorder) RecordSample(s core.DriveSample) {
	if r.session == nil {
		return
	}
	s.SessionID = r.session.ID
	r.stats.Samples++
	r.trail.Add(s.Position)

	if r.deps.Backend != nil {
		if err := r.deps.Backend.RecordDriveSample(&s); err != nil {
			r.fail(err, "failed to record drive sample")
		}
	}
	if r.deps.Telemetry != nil {
		if err := r.deps.Telemetry.WritePoint(telemetry.DrivePoint(r.session.GameID, s)); err != nil {
			r.fail(err, "failed to write drive telemetry")
		}
	}
}

// End closes the open session with its final summary.
func (r *Recorder) End(frames uint, localID *uint64, end time.Time) {
	if r.session == nil {
		return
	}
	s := r.session
	r.session = nil

	s.Frames = frames
	s.LocalID = localID
	s.EndTime = end
	s.Trail = r.trail.Points()

	if r.deps.Backend != nil {
		if err := r.deps.Backend.EndSession(s); err != nil {
			r.fail(err, "failed to end session")
		}
		if exp, ok := r.deps.Backend.(storage.Exporter); ok && exp.ExportedFilePath() != "" {
			r.log.Info().Str("path", exp.ExportedFilePath()).Msg("session exported")
		}
	}

	r.log.Info().
		Uint("sessionId", s.ID).
		Uint("frames", frames).
		Dur("duration", end.Sub(s.StartTime)).
		Float64("trailLength", geo.TrailLength(s.Trail)).
		Msg("session ended")
}

// Attach swaps the storage and telemetry sinks. An open session is ended on
// the old sinks first.
func (r *Recorder) Attach(backend storage.Backend, tel PointWriter) {
	if r.session != nil {
		r.End(r.session.Frames, r.session.LocalID, time.Now())
	}
	r.deps.Backend = backend
	r.deps.Telemetry = tel
}

// Stats returns the running counters.
func (r *Recorder) Stats() Stats {
	return r.stats
}

// Close ends any open session and closes the backend.
func (r *Recorder) Close() error {
	if r.session != nil {
		r.End(r.session.Frames, r.session.LocalID, time.Now())
	}
	var errs []error
	if r.deps.Backend != nil {
		errs = append(errs, r.deps.Backend.Close())
	}
	if c, ok := r.deps.Telemetry.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func (r *Recorder) fail(err error, msg string) {
	r.stats.Errors++
	r.log.Error().Err(err).Msg(msg)
}
