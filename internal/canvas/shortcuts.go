package canvas

import "sync"

// Shortcuts is a scoped keyboard-shortcut registry. Each authoring surface
// owns its own registry so handlers never outlive the surface: Subscribe
// returns an unsubscribe func, and Teardown drops everything at once.
type Shortcuts struct {
	mu     sync.Mutex
	nextID int
	byKey  map[string]map[int]func()
}

// NewShortcuts returns an empty registry.
func NewShortcuts() *Shortcuts {
	return &Shortcuts{byKey: make(map[string]map[int]func())}
}

// Subscribe registers fn for key and returns its unsubscribe func. Calling
// the returned func more than once is harmless.
func (s *Shortcuts) Subscribe(key string, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	if s.byKey[key] == nil {
		s.byKey[key] = make(map[int]func())
	}
	s.byKey[key][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if handlers, ok := s.byKey[key]; ok {
			delete(handlers, id)
			if len(handlers) == 0 {
				delete(s.byKey, key)
			}
		}
	}
}

// Press invokes every handler registered for key.
func (s *Shortcuts) Press(key string) {
	s.mu.Lock()
	handlers := make([]func(), 0, len(s.byKey[key]))
	for _, fn := range s.byKey[key] {
		handlers = append(handlers, fn)
	}
	s.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

// Teardown removes every registered handler.
func (s *Shortcuts) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byKey = make(map[string]map[int]func())
}
