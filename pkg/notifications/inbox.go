package notifications

import (
	"slices"
	"sync"
)

const DefaultCapacity = 100

// Inbox keeps the most recent notifications per user, newest first.
type Inbox struct {
	mu       sync.RWMutex
	capacity int
	entries  map[string][]Notification
}

func NewInbox(capacity int) *Inbox {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Inbox{
		capacity: capacity,
		entries:  make(map[string][]Notification),
	}
}

// Add prepends n to the user's inbox and drops the oldest entries beyond capacity.
func (i *Inbox) Add(n Notification) {
	i.mu.Lock()
	defer i.mu.Unlock()

	entries := append([]Notification{n}, i.entries[n.UserID]...)
	if len(entries) > i.capacity {
		entries = entries[:i.capacity]
	}

	i.entries[n.UserID] = entries
}

// List returns up to limit notifications for userID; limit <= 0 returns all.
func (i *Inbox) List(userID string, limit int) []Notification {
	i.mu.RLock()
	defer i.mu.RUnlock()

	entries := i.entries[userID]
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return slices.Clone(entries)
}

func (i *Inbox) Count(userID string) int {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return len(i.entries[userID])
}

func (i *Inbox) Clear(userID string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	delete(i.entries, userID)
}
