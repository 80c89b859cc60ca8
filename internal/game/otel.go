package game

import (
	"context"

	"github.com/refugestudios/racing-game/pkg/core"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/refugestudios/racing-game/internal/game"

type metrics struct {
	frames      metric.Int64Counter
	transitions metric.Int64Counter
}

// newMetrics registers the game instruments on the global meter. A nil
// *metrics is valid and records nothing.
func newMetrics(g *Game) (*metrics, error) {
	m := otel.Meter(instrumentationName)

	frames, err := m.Int64Counter("game.frames",
		metric.WithDescription("Simulation updates"))
	if err != nil {
		return nil, err
	}
	transitions, err := m.Int64Counter("session.transitions",
		metric.WithDescription("Session events received"))
	if err != nil {
		return nil, err
	}
	_, err = m.Int64ObservableGauge("game.entities",
		metric.WithDescription("Live entities"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(g.EntityCount()))
			return nil
		}))
	if err != nil {
		return nil, err
	}

	return &metrics{frames: frames, transitions: transitions}, nil
}

func (m *metrics) frame() {
	if m == nil {
		return
	}
	m.frames.Add(context.Background(), 1)
}

func (m *metrics) transition(kind core.EventKind, applied bool) {
	if m == nil {
		return
	}
	m.transitions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("event", string(kind)),
		attribute.Bool("applied", applied),
	))
}
