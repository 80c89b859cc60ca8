// Package session reconciles participant join/leave events with the entity
// registry and drive-state store.
//
// Per client id the states are Absent, Remote and Local. Exactly one id may
// ever become Local per session; every duplicate or out-of-order event is a
// logged no-op.
package session

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/refugestudios/racing-game/internal/drive"
	"github.com/refugestudios/racing-game/internal/entity"
	"github.com/refugestudios/racing-game/pkg/hostapi"
)

// ClientState is the reconciler's view of one client id.
type ClientState int

const (
	Absent ClientState = iota
	Remote
	Local
)

func (s ClientState) String() string {
	switch s {
	case Remote:
		return "remote"
	case Local:
		return "local"
	default:
		return "absent"
	}
}

// Models loads car models for new entities and hands back any model that
// could not be registered.
type Models interface {
	LoadModel(path string) hostapi.ModelHandle
	RemoveModel(hostapi.ModelHandle)
}

// Spawn describes how new cars are placed.
type Spawn struct {
	ModelPath string  `json:"modelPath" mapstructure:"modelPath"`
	Height    float64 `json:"height" mapstructure:"height"` // slightly below the ground plane
	Scale     float64 `json:"scale" mapstructure:"scale"`
	RemoteYaw float64 `json:"remoteYaw" mapstructure:"remoteYaw"` // remote cars face back toward the local spawn
}

// DefaultSpawn returns the racing demo spawn.
func DefaultSpawn() Spawn {
	return Spawn{
		ModelPath: "games/racing-demo/assets/car.svdag",
		Height:    -0.09,
		Scale:     0.02,
		RemoteYaw: math.Pi,
	}
}

// Reconciler applies session events. It is not safe for concurrent use; the
// host serialises events with frame updates.
type Reconciler struct {
	entities *entity.Registry
	drives   *drive.Store
	models   Models
	spawn    Spawn
	log      zerolog.Logger

	localID  uint64
	hasLocal bool
}

// New creates a reconciler over the given registry and store.
func New(entities *entity.Registry, drives *drive.Store, models Models, spawn Spawn, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		entities: entities,
		drives:   drives,
		models:   models,
		spawn:    spawn,
		log:      log.With().Str("component", "session").Logger(),
	}
}

// LocalID returns the local client id once the local client is ready.
func (r *Reconciler) LocalID() (uint64, bool) {
	return r.localID, r.hasLocal
}

// State reports where id currently is in the lifecycle.
func (r *Reconciler) State(id uint64) ClientState {
	e, ok := r.entities.Find(id)
	if !ok {
		return Absent
	}
	if e.Flags.Has(entity.FlagLocal) {
		return Local
	}
	return Remote
}

// Reset forgets the local client id. Used when the module is reinitialised.
func (r *Reconciler) Reset() {
	r.localID = 0
	r.hasLocal = false
}

// OnLocalReady assigns the session's local client and spawns its car. It
// reports whether anything changed.
func (r *Reconciler) OnLocalReady(id uint64) bool {
	if r.hasLocal {
		r.log.Debug().Uint64("clientId", id).Uint64("localId", r.localID).
			Msg("Local client already assigned, ignoring ready")
		return false
	}

	if e, ok := r.entities.Find(id); ok {
		// joined as remote before our own ready arrived
		r.localID, r.hasLocal = id, true
		e.Flags = e.Flags&^entity.FlagRemote | entity.FlagLocal
		e.Yaw = 0
		r.log.Info().Uint64("clientId", id).Msg("Promoted remote client to local")
		return true
	}

	if err := r.insert(r.newCar(id, entity.FlagLocal, 0)); err != nil {
		r.log.Error().Err(err).Uint64("clientId", id).Msg("Failed to add local car")
		return false
	}
	r.localID, r.hasLocal = id, true
	r.log.Info().Uint64("clientId", id).Msg("Local client ready")
	return true
}

// OnClientJoin spawns a remote car for id. Joins for the local id or for an
// id that is already present are ignored.
func (r *Reconciler) OnClientJoin(id uint64) bool {
	if r.hasLocal && id == r.localID {
		r.log.Debug().Uint64("clientId", id).Msg("Ignoring join for local client")
		return false
	}
	if _, ok := r.entities.Find(id); ok {
		r.log.Debug().Uint64("clientId", id).Msg("Client already present, ignoring join")
		return false
	}

	if err := r.insert(r.newCar(id, entity.FlagRemote, r.spawn.RemoteYaw)); err != nil {
		r.log.Error().Err(err).Uint64("clientId", id).Msg("Failed to add remote car")
		return false
	}
	r.log.Info().Uint64("clientId", id).Msg("Client joined")
	return true
}

// OnClientDisconnect removes the client's car, releasing its model, and any
// drive state. The local id stays assigned for the rest of the session.
func (r *Reconciler) OnClientDisconnect(id uint64) bool {
	removed := r.entities.Remove(id)
	if r.drives.Remove(id) && !removed {
		r.log.Warn().Uint64("clientId", id).Msg("Dropped orphaned drive state")
	}
	if !removed {
		r.log.Debug().Uint64("clientId", id).Msg("Client not present, ignoring disconnect")
		return false
	}
	r.log.Info().Uint64("clientId", id).Msg("Client disconnected")
	return true
}

// insert registers e, returning its model to the host if registration fails.
func (r *Reconciler) insert(e entity.Entity) error {
	err := r.entities.Insert(e)
	if err != nil && r.models != nil && e.Model.Valid() {
		r.models.RemoveModel(e.Model)
	}
	return err
}

func (r *Reconciler) newCar(id uint64, flags entity.Flags, yaw float64) entity.Entity {
	e := entity.Entity{
		ID:    id,
		Yaw:   yaw,
		Scale: r.spawn.Scale,
		Flags: flags,
	}
	e.Position[1] = r.spawn.Height

	if r.models != nil {
		e.Model = r.models.LoadModel(r.spawn.ModelPath)
	}
	if !e.Model.Valid() {
		r.log.Error().Uint64("clientId", id).Str("path", r.spawn.ModelPath).
			Msg("Failed to load car model")
	}
	return e
}
