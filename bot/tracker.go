package bot

import "sync"

// MessageTracker remembers the content messages previously sent to each chat
// so they can be cleared before presenting new content.
type MessageTracker struct {
	mu   sync.Mutex
	sent map[int64][]int
}

// NewMessageTracker creates an empty tracker.
func NewMessageTracker() *MessageTracker {
	return &MessageTracker{sent: make(map[int64][]int)}
}

// Track replaces the remembered message ids for a chat.
func (t *MessageTracker) Track(chatID int64, messageIDs []int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent[chatID] = messageIDs
}

// Take returns the remembered ids for a chat and clears them. The cleanup
// pass that follows is best-effort, so the ids are dropped regardless of
// whether each deletion succeeds.
func (t *MessageTracker) Take(chatID int64) []int {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := t.sent[chatID]
	t.sent[chatID] = nil
	return ids
}
