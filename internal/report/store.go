package report

import (
	"sync"

	"github.com/google/uuid"
)

// Store is the exclusive owner of a live report State. All mutation goes
// through Dispatch; readers get value snapshots that share widget pointers
// but can never write back into the store.
//
// Dispatch runs each transition to completion under a lock, so every store
// mutation is fully visible to the next read.
type Store struct {
	mu    sync.Mutex
	state State
}

// NewStore returns a Store holding an empty report.
func NewStore() *Store {
	return &Store{}
}

// NewStoreFrom returns a Store hydrated with an existing state.
func NewStoreFrom(s State) *Store {
	return &Store{state: s}
}

// Dispatch applies one action and returns the resulting state.
func (st *Store) Dispatch(action Action) State {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = Reduce(st.state, action)
	return st.state
}

// AddWidget creates a widget of the given type with a fresh id, selects it,
// and returns the new widget's id.
func (st *Store) AddWidget(t WidgetType) string {
	id := NewID()
	st.Dispatch(AddWidget{ID: id, Type: t})
	return id
}

// State returns the current state value.
func (st *Store) State() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

// NewID returns a fresh unique widget id. UUIDs are used instead of
// timestamps so rapid successive adds can never collide.
func NewID() string {
	return uuid.NewString()
}
