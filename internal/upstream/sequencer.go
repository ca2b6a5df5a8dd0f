package upstream

import "sync"

// Sequencer orders concurrent fetches for the same session and report so a
// slow response can never overwrite the result of a request issued after
// it. Each Begin hands out a monotonically increasing ticket per key;
// Commit accepts only the latest ticket.
type Sequencer struct {
	mu      sync.Mutex
	tickets map[string]uint64
}

// NewSequencer constructs an empty sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{tickets: make(map[string]uint64)}
}

// Begin registers a new fetch for key and returns its ticket.
func (s *Sequencer) Begin(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[key]++
	return s.tickets[key]
}

// Commit reports whether the fetch holding ticket is still the latest for
// key. Callers discard the fetched rows when it returns false.
func (s *Sequencer) Commit(key string, ticket uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickets[key] == ticket
}

// Forget drops the ticket state for key, typically on session destroy.
func (s *Sequencer) Forget(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tickets, key)
}
