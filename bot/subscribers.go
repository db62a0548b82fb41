package bot

import "sync"

// Subscribers is the set of chats that opted in to new-material
// notifications. Membership is not persisted across restarts.
type Subscribers struct {
	mu  sync.Mutex
	set map[int64]struct{}
}

// NewSubscribers creates an empty subscriber set.
func NewSubscribers() *Subscribers {
	return &Subscribers{set: make(map[int64]struct{})}
}

// Add opts a chat in. Idempotent.
func (s *Subscribers) Add(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set[chatID] = struct{}{}
}

// Remove opts a chat out. Removing an absent chat is a no-op.
func (s *Subscribers) Remove(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.set, chatID)
}

// Contains reports membership.
func (s *Subscribers) Contains(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.set[chatID]
	return ok
}

// List returns a snapshot of the current members.
func (s *Subscribers) List() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]int64, 0, len(s.set))
	for chatID := range s.set {
		out = append(out, chatID)
	}
	return out
}
