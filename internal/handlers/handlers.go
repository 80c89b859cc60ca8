// Package handlers binds session notifications from the engine to the game
// through the dispatcher.
package handlers

import (
	"github.com/refugestudios/racing-game/internal/dispatcher"
)

// Session commands understood by the dispatcher.
const (
	CommandReady      = ":READY:"
	CommandJoin       = ":JOIN:"
	CommandDisconnect = ":DISCONNECT:"
)

// Sessions applies session events. Each method reports whether the event
// changed anything.
type Sessions interface {
	OnLocalReady(id uint64) bool
	OnClientJoin(id uint64) bool
	OnClientDisconnect(id uint64) bool
}

// Service routes dispatched session events to a Sessions implementation.
type Service struct {
	sessions Sessions
}

// NewService creates a service for s.
func NewService(s Sessions) *Service {
	return &Service{sessions: s}
}

// Register adds the session commands to d. Results are the applied flag.
func (s *Service) Register(d *dispatcher.Dispatcher) {
	d.Register(CommandReady, s.handle(s.sessions.OnLocalReady), dispatcher.Logged())
	d.Register(CommandJoin, s.handle(s.sessions.OnClientJoin), dispatcher.Logged())
	d.Register(CommandDisconnect, s.handle(s.sessions.OnClientDisconnect), dispatcher.Logged())
}

func (s *Service) handle(apply func(uint64) bool) dispatcher.HandlerFunc {
	return func(e dispatcher.Event) (any, error) {
		return apply(e.ClientID), nil
	}
}
