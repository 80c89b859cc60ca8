package telemetry

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/refugestudios/racing-game/internal/config"
	"github.com/refugestudios/racing-game/pkg/core"
	"github.com/rs/zerolog"
)

// ErrDisabled is returned by Connect when telemetry is switched off.
var ErrDisabled = errors.New("influx telemetry is disabled")

// Writer sends drive telemetry to InfluxDB. When the server cannot be
// reached, points go to a gzip line-protocol backup file instead.
type Writer struct {
	cfg    config.InfluxConfig
	log    zerolog.Logger
	client influxdb2.Client
	api    influxdb2_api.WriteAPI

	backupFile   *os.File
	BackupWriter *gzip.Writer
	IsValid      bool
}

// NewWriter creates a telemetry writer. Nothing is opened until Connect.
func NewWriter(cfg config.InfluxConfig, log zerolog.Logger) *Writer {
	return &Writer{
		cfg: cfg,
		log: log.With().Str("component", "telemetry").Logger(),
	}
}

// Connect establishes a connection to InfluxDB, falling back to the backup file.
func (w *Writer) Connect(ctx context.Context) error {
	if !w.cfg.Enabled {
		return ErrDisabled
	}

	w.client = influxdb2.NewClientWithOptions(
		fmt.Sprintf("%s://%s:%s", w.cfg.Protocol, w.cfg.Host, w.cfg.Port),
		w.cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	// validate client connection health
	running, err := w.client.Ping(ctx)
	if err != nil || !running {
		w.IsValid = false
		w.log.Warn().Err(err).Str("backupPath", w.cfg.BackupPath).
			Msg("InfluxDB unreachable, writing telemetry to backup file")
		return w.openBackup()
	}

	if err := w.setupOrganizationAndBucket(ctx); err != nil {
		return err
	}

	w.api = w.client.WriteAPI(w.cfg.Org, w.cfg.Bucket)
	errorsCh := w.api.Errors()
	go func() {
		for writeErr := range errorsCh {
			w.log.Error().Err(writeErr).Str("bucket", w.cfg.Bucket).Msg("Error sending data to InfluxDB")
		}
	}()

	w.IsValid = true
	w.log.Info().Str("bucket", w.cfg.Bucket).Msg("InfluxDB client initialized")
	return nil
}

func (w *Writer) openBackup() error {
	if w.BackupWriter != nil {
		return nil
	}
	file, err := os.OpenFile(w.cfg.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error creating backup file: %w", err)
	}
	w.backupFile = file
	w.BackupWriter = gzip.NewWriter(file)
	return nil
}

func (w *Writer) setupOrganizationAndBucket(ctx context.Context) error {
	orgs := w.client.OrganizationsAPI()

	org, err := orgs.FindOrganizationByName(ctx, w.cfg.Org)
	if err != nil {
		w.log.Info().Str("org", w.cfg.Org).Msg("Organization not found, creating")
		org, err = orgs.CreateOrganizationWithName(ctx, w.cfg.Org)
		if err != nil {
			return fmt.Errorf("error creating organization %s: %w", w.cfg.Org, err)
		}
	}

	// 30 day retention
	if _, err = w.client.BucketsAPI().FindBucketByName(ctx, w.cfg.Bucket); err != nil {
		w.log.Info().Str("bucket", w.cfg.Bucket).Msg("Bucket not found, creating")
		rule := domain.RetentionRuleTypeExpire
		_, err = w.client.BucketsAPI().CreateBucketWithName(ctx, org, w.cfg.Bucket, domain.RetentionRule{
			Type:         &rule,
			EverySeconds: 60 * 60 * 24 * 30,
		})
		if err != nil {
			return fmt.Errorf("error creating bucket %s: %w", w.cfg.Bucket, err)
		}
	}
	return nil
}

// WritePoint writes a point to InfluxDB or the backup file.
func (w *Writer) WritePoint(point *influxdb2_write.Point) error {
	if w.IsValid {
		w.api.WritePoint(point)
		return nil
	}
	if w.BackupWriter == nil {
		return fmt.Errorf("influxDB client not initialized and backup writer not available")
	}

	lineProtocol := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if _, err := w.BackupWriter.Write([]byte(lineProtocol + "\n")); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

// Flush pushes buffered points to the server or the backup file.
func (w *Writer) Flush() error {
	if w.api != nil {
		w.api.Flush()
	}
	if w.BackupWriter != nil {
		return w.BackupWriter.Flush()
	}
	return nil
}

// Close flushes pending points and releases the client and backup file.
// Connect may be called again afterwards.
func (w *Writer) Close() error {
	if w.api != nil {
		w.api.Flush()
		w.api = nil
	}
	if w.client != nil {
		w.client.Close()
		w.client = nil
	}
	var errs []error
	if w.BackupWriter != nil {
		errs = append(errs, w.BackupWriter.Close())
		w.BackupWriter = nil
	}
	if w.backupFile != nil {
		errs = append(errs, w.backupFile.Close())
		w.backupFile = nil
	}
	w.IsValid = false
	return errors.Join(errs...)
}

// DrivePoint builds the "drive" measurement for a sample.
func DrivePoint(gameID string, s core.DriveSample) *influxdb2_write.Point {
	return influxdb2.NewPoint(
		"drive",
		map[string]string{
			"game":    gameID,
			"session": fmt.Sprint(s.SessionID),
			"entity":  fmt.Sprint(s.EntityID),
		},
		map[string]any{
			"frame":    int64(s.Frame),
			"x":        s.Position.X,
			"y":        s.Position.Y,
			"z":        s.Position.Z,
			"yaw":      s.Yaw,
			"speed":    s.Speed,
			"roll":     s.Roll,
			"throttle": s.Throttle,
			"brake":    s.Brake,
			"steer":    s.Steer,
		},
		s.Time,
	)
}

// SessionEventPoint builds the "session_event" measurement.
func SessionEventPoint(gameID string, e core.SessionEvent) *influxdb2_write.Point {
	return influxdb2.NewPoint(
		"session_event",
		map[string]string{
			"game":    gameID,
			"session": fmt.Sprint(e.SessionID),
			"kind":    string(e.Kind),
		},
		map[string]any{
			"client":   int64(e.ClientID),
			"applied":  e.Applied,
			"entities": int64(e.EntityCount),
			"frame":    int64(e.Frame),
		},
		e.Time,
	)
}
