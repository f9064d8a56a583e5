package store

import (
	"sync"
)

// Store serializes reducer applications over a single session's state.
// Dispatch and State are safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	state   AppState
	reducer *Reducer
}

// New creates a store seeded with the given initial state
func New(initial AppState, cfg Config) *Store {
	return &Store{
		state:   initial,
		reducer: NewReducer(initial, cfg),
	}
}

// Dispatch applies an action and returns the resulting state
func (s *Store) Dispatch(action Action) AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.reducer.Apply(s.state, action)
	return s.state
}

// State returns the current state snapshot
func (s *Store) State() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
