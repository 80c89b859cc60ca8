package entity

import (
	"errors"

	"github.com/refugestudios/racing-game/pkg/hostapi"
)

var (
	// ErrDuplicateID is returned when inserting an id that is already registered.
	ErrDuplicateID = errors.New("entity id already registered")
	// ErrLocalTaken is returned when inserting a second locally controlled entity.
	ErrLocalTaken = errors.New("a local entity is already registered")
)

// ModelReleaser hands model handles back to their owner when entities leave.
type ModelReleaser interface {
	RemoveModel(hostapi.ModelHandle)
}

// Registry holds the active entities in insertion order.
//
// Pointers returned by Find and FindLocal stay valid until the next Insert,
// Remove or Clear.
type Registry struct {
	entities []Entity
	releaser ModelReleaser
}

// NewRegistry creates an empty registry. A nil releaser skips model release.
func NewRegistry(releaser ModelReleaser) *Registry {
	return &Registry{
		entities: make([]Entity, 0),
		releaser: releaser,
	}
}

// Insert appends e. Nothing is inserted on error.
func (r *Registry) Insert(e Entity) error {
	if _, ok := r.Find(e.ID); ok {
		return ErrDuplicateID
	}
	if e.Flags.Has(FlagLocal) {
		if _, ok := r.FindLocal(); ok {
			return ErrLocalTaken
		}
	}
	r.entities = append(r.entities, e)
	return nil
}

// Find returns the entity with the given id.
func (r *Registry) Find(id uint64) (*Entity, bool) {
	for i := range r.entities {
		if r.entities[i].ID == id {
			return &r.entities[i], true
		}
	}
	return nil, false
}

// FindLocal returns the locally controlled entity, if the local session has
// been established.
func (r *Registry) FindLocal() (*Entity, bool) {
	for i := range r.entities {
		if r.entities[i].Flags.Has(FlagLocal) {
			return &r.entities[i], true
		}
	}
	return nil, false
}

// Remove deletes the entity and releases its model. It reports whether the
// id was present.
func (r *Registry) Remove(id uint64) bool {
	for i := range r.entities {
		if r.entities[i].ID != id {
			continue
		}
		r.release(r.entities[i].Model)
		r.entities = append(r.entities[:i], r.entities[i+1:]...)
		return true
	}
	return false
}

// Clear releases every held model and empties the registry.
func (r *Registry) Clear() {
	for i := range r.entities {
		r.release(r.entities[i].Model)
	}
	r.entities = r.entities[:0]
}

// Len returns the number of registered entities.
func (r *Registry) Len() int {
	return len(r.entities)
}

// Entities exposes the backing slice so the host can inspect or override
// poses in place. Callers must not append to it.
func (r *Registry) Entities() []Entity {
	return r.entities
}

func (r *Registry) release(h hostapi.ModelHandle) {
	if r.releaser == nil || !h.Valid() {
		return
	}
	r.releaser.RemoveModel(h)
}
