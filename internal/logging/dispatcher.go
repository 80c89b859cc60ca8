package logging

import "github.com/rs/zerolog"

// DispatcherLogger writes dispatcher key/value logs through zerolog, tagged
// with component=dispatcher.
type DispatcherLogger struct {
	log zerolog.Logger
}

// NewDispatcherLogger wraps log for the dispatcher.
func NewDispatcherLogger(log zerolog.Logger) *DispatcherLogger {
	return &DispatcherLogger{log: log.With().Str("component", "dispatcher").Logger()}
}

func (l *DispatcherLogger) Debug(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

// Warn is used for session events that changed nothing, such as a repeated
// join.
func (l *DispatcherLogger) Warn(msg string, keysAndValues ...any) {
	l.log.Warn().Fields(keysAndValues).Msg(msg)
}

func (l *DispatcherLogger) Error(msg string, keysAndValues ...any) {
	l.log.Error().Fields(keysAndValues).Msg(msg)
}
