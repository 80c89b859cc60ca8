// Package drive keeps per-entity driving scratch state alongside the entity
// registry. States are created on first simulation and removed explicitly
// with their entity; nothing is collected implicitly.
package drive

// State is the driving scratch data for one entity.
type State struct {
	ID    uint64
	Speed float64 // signed forward speed
	Roll  float64 // smoothed visual roll, camera only
}

// Store maps entity ids to their drive state.
type Store struct {
	states map[uint64]*State
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		states: make(map[uint64]*State),
	}
}

// FindOrCreate returns the state for id, creating a zeroed one on first use.
// The caller must only pass ids that exist in the entity registry.
func (s *Store) FindOrCreate(id uint64) *State {
	if st, ok := s.states[id]; ok {
		return st
	}
	st := &State{ID: id}
	s.states[id] = st
	return st
}

// Get returns the state for id without creating it.
func (s *Store) Get(id uint64) (*State, bool) {
	st, ok := s.states[id]
	return st, ok
}

// Remove deletes the state for id and reports whether it existed.
func (s *Store) Remove(id uint64) bool {
	if _, ok := s.states[id]; !ok {
		return false
	}
	delete(s.states, id)
	return true
}

// Clear empties the store.
func (s *Store) Clear() {
	s.states = make(map[uint64]*State)
}

// Len returns the number of tracked states.
func (s *Store) Len() int {
	return len(s.states)
}
