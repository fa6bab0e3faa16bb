package stripe

import (
	"sync"
	"time"
)

// MemoryEventStore remembers recently processed webhook event IDs so
// replayed deliveries are acknowledged without re-dispatch. It is
// in-memory only: the service keeps no durable state, and a replay
// after a restart is harmless since dispatch never mutates anything.
type MemoryEventStore struct {
	events map[string]time.Time
	mutex  sync.RWMutex
	ttl    time.Duration
}

// NewMemoryEventStore creates a new in-memory event store
func NewMemoryEventStore(ttl time.Duration) *MemoryEventStore {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	store := &MemoryEventStore{
		events: make(map[string]time.Time),
		ttl:    ttl,
	}
	go store.cleanup()

	return store
}

// AlreadyProcessed checks if an event has already been processed
func (m *MemoryEventStore) AlreadyProcessed(eventID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	_, exists := m.events[eventID]
	return exists
}

// MarkProcessed marks an event as processed
func (m *MemoryEventStore) MarkProcessed(eventID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.events[eventID] = time.Now()
}

// cleanup removes expired events periodically
func (m *MemoryEventStore) cleanup() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		m.mutex.Lock()
		now := time.Now()
		for eventID, timestamp := range m.events {
			if now.Sub(timestamp) > m.ttl {
				delete(m.events, eventID)
			}
		}
		m.mutex.Unlock()
	}
}
