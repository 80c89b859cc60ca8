package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"

	"github.com/refugestudios/racing-game/pkg/hostapi"
)

// Options selects where module log output goes. Zero values disable a sink,
// except Console which falls back to stdout. The engine's log channels are
// attached per game through ForHost.
type Options struct {
	Level       string
	Console     io.Writer
	File        io.Writer
	GraylogAddr string
}

// ParseLevel converts a config log level to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New builds the module logger. A Graylog connection failure is returned
// alongside a logger that writes to the remaining sinks.
func New(opts Options) (zerolog.Logger, error) {
	w, err := NewWriter(opts)
	logger := zerolog.New(w).
		Level(ParseLevel(opts.Level)).
		With().Timestamp().Logger()
	return logger, err
}

// NewWriter builds the fan-out writer behind New.
func NewWriter(opts Options) (zerolog.LevelWriter, error) {
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	writers := []io.Writer{
		zerolog.ConsoleWriter{
			Out:        console,
			TimeFormat: time.RFC3339,
		},
	}
	if opts.File != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        opts.File,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}

	var gelfErr error
	if opts.GraylogAddr != "" {
		gw, err := gelf.NewWriter(opts.GraylogAddr)
		if err != nil {
			gelfErr = fmt.Errorf("connecting to graylog at %s: %w", opts.GraylogAddr, err)
		} else {
			writers = append(writers, gw)
		}
	}

	return zerolog.MultiLevelWriter(writers...), gelfErr
}

// ForHost returns a logger that writes to w, when set, and to the host's log
// channels. Fields named in hostExclude are left out of host lines.
func ForHost(w io.Writer, host hostapi.Logger, level zerolog.Level, hostExclude ...string) zerolog.Logger {
	writers := []io.Writer{NewHostWriter(host, hostExclude...)}
	if w != nil {
		writers = append(writers, w)
	}
	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()
}

// LogFilePath builds a log file path using OS-appropriate path separators.
func LogFilePath(logsDir, moduleName string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", moduleName, sessionStart.Format("20060102_150405")),
	)
}

// HostWriter forwards log events to the engine's log channels as single
// human-readable lines. Warnings go to Warn, errors and worse to Error,
// everything else to Log.
type HostWriter struct {
	host    hostapi.Logger
	exclude []string
}

// NewHostWriter wraps the engine logger, dropping the named fields.
func NewHostWriter(host hostapi.Logger, exclude ...string) *HostWriter {
	return &HostWriter{host: host, exclude: exclude}
}

// Write forwards an event of unknown level to the plain log channel.
func (w *HostWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel formats a JSON event and routes it by level.
func (w *HostWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	var buf bytes.Buffer
	cw := zerolog.ConsoleWriter{
		Out:           &buf,
		NoColor:       true,
		PartsExclude:  []string{zerolog.TimestampFieldName},
		FieldsExclude: w.exclude,
	}
	if _, err := cw.Write(p); err != nil {
		return 0, err
	}
	line := strings.TrimRight(buf.String(), "\n")

	switch {
	case level == zerolog.WarnLevel:
		w.host.Warn(line)
	case level >= zerolog.ErrorLevel && level <= zerolog.PanicLevel:
		w.host.Error(line)
	default:
		w.host.Log(line)
	}
	return len(p), nil
}
