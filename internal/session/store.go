package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// DefaultTTL is how long an idle session survives before eviction.
const DefaultTTL = 30 * time.Minute

// Store holds active sessions keyed by id and evicts the ones that have been
// idle past the TTL. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	lastSeen map[string]time.Time
	ttl      time.Duration
	done     chan struct{}
}

// NewStore creates a store and starts its eviction goroutine. A non-positive
// ttl falls back to DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	st := &Store{
		sessions: make(map[string]*Session),
		lastSeen: make(map[string]time.Time),
		ttl:      ttl,
		done:     make(chan struct{}),
	}

	go st.cleanupRoutine(5 * time.Minute)
	return st
}

// Create starts a session around the initial document and returns its id.
func (st *Store) Create(initial string) (string, *Session) {
	id := newSessionID()
	sess := New(initial)

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[id] = sess
	st.lastSeen[id] = time.Now()
	return id, sess
}

// Get returns the session for id, refreshing its idle timer.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	if ok {
		st.lastSeen[id] = time.Now()
	}
	return sess, ok
}

// Delete removes the session for id. Deleting an unknown id is a no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
	delete(st.lastSeen, id)
}

// Len returns the number of active sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// cleanupRoutine periodically evicts idle sessions.
func (st *Store) cleanupRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			st.cleanup()
		case <-st.done:
			return
		}
	}
}

// cleanup removes sessions idle longer than the TTL.
func (st *Store) cleanup() {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := time.Now()
	for id, seen := range st.lastSeen {
		if now.Sub(seen) > st.ttl {
			delete(st.sessions, id)
			delete(st.lastSeen, id)
		}
	}
}

// Close stops the eviction goroutine. Should be called when shutting down.
func (st *Store) Close() {
	close(st.done)
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// time-derived id rather than panicking in a request path.
		return hex.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano)))
	}
	return hex.EncodeToString(buf)
}
