// Package progress tracks which documents each user has opened. State is
// in-memory only and rebuilt empty on every start.
package progress

import "sync"

// Store is a per-user studied map. Entries are created lazily on first
// interaction and never deleted.
type Store struct {
	mu    sync.RWMutex
	users map[int64]map[string]bool
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{users: make(map[int64]map[string]bool)}
}

// MarkStudied records that the user has opened the document. Idempotent.
func (s *Store) MarkStudied(userID int64, rel string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.users[userID]
	if !ok {
		m = make(map[string]bool)
		s.users[userID] = m
	}
	m[rel] = true
}

// IsStudied reports whether the user has opened the document. Absent entries
// are false.
func (s *Store) IsStudied(userID int64, rel string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[userID][rel]
}

// StudiedCount returns how many documents the user has opened.
func (s *Store) StudiedCount(userID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, studied := range s.users[userID] {
		if studied {
			count++
		}
	}
	return count
}

// StatsFor returns the user's studied count and percentage of total. With no
// documents in the tree both values are 0, whatever the progress map holds.
func (s *Store) StatsFor(userID int64, total int) (studied int, percent float64) {
	if total == 0 {
		return 0, 0
	}
	studied = s.StudiedCount(userID)
	return studied, float64(studied) / float64(total) * 100
}
