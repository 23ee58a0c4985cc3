package session

import (
	"container/list"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps live sessions in memory with TTL expiry and size-based LRU
// eviction, and runs a periodic janitor to drop expired entries.
type Store struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List

	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type storeItem struct {
	key string
	entry
}

// NewStore creates a session store and starts its cleanup goroutine.
func NewStore(maxSize int, ttl time.Duration) *Store {
	s := &Store{
		maxSize:     maxSize,
		ttl:         ttl,
		items:       make(map[string]*list.Element),
		lru:         list.New(),
		stopCleanup: make(chan struct{}),
	}
	go s.startCleanup()
	return s
}

// Create issues a new session with an opaque identifier. Pass zero values
// for an anonymous session.
func (s *Store) Create(userID int64, name, email string) (*Session, error) {
	sess, err := newSession(uuid.NewString(), userID, name, email)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := &storeItem{
		key:   sess.ID,
		entry: entry{sess: sess, expiresAt: time.Now().Add(s.ttl)},
	}
	elem := s.lru.PushFront(item)
	s.items[sess.ID] = elem

	// Evict if over capacity
	if s.lru.Len() > s.maxSize {
		if oldest := s.lru.Back(); oldest != nil {
			s.removeElement(oldest)
		}
	}

	return sess, nil
}

// Get looks up a live session by id. Expired sessions are removed and
// reported as absent.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, exists := s.items[id]
	if !exists {
		return nil, false
	}

	item := elem.Value.(*storeItem)
	if time.Now().After(item.expiresAt) {
		s.removeElement(elem)
		return nil, false
	}

	// Move to front (most recently used)
	s.lru.MoveToFront(elem)
	return item.sess, true
}

// Destroy removes a session, invalidating its identifier immediately.
func (s *Store) Destroy(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, exists := s.items[id]; exists {
		s.removeElement(elem)
	}
}

// Regenerate replaces an old session with a freshly keyed one for the given
// user. The old identifier stops resolving before the new session exists,
// so a fixated cookie is useless after login.
func (s *Store) Regenerate(oldID string, userID int64, name, email string) (*Session, error) {
	if oldID != "" {
		s.Destroy(oldID)
	}
	return s.Create(userID, name, email)
}

// Size returns the current number of live sessions.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Stop shuts down the cleanup goroutine.
func (s *Store) Stop() {
	s.shutdownOnce.Do(func() {
		close(s.stopCleanup)
	})
}

func (s *Store) removeElement(elem *list.Element) {
	item := elem.Value.(*storeItem)
	delete(s.items, item.key)
	s.lru.Remove(elem)
}

// CleanExpired removes all expired sessions and returns how many were
// dropped.
func (s *Store) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var toRemove []*list.Element
	for elem := s.lru.Front(); elem != nil; elem = elem.Next() {
		item := elem.Value.(*storeItem)
		if now.After(item.expiresAt) {
			toRemove = append(toRemove, elem)
		}
	}
	for _, elem := range toRemove {
		s.removeElement(elem)
	}
	return len(toRemove)
}

func (s *Store) startCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.CleanExpired()
		case <-s.stopCleanup:
			return
		}
	}
}
