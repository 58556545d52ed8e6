// Package session owns the per-upload analysis state. Every upload
// creates one session holding its working table; sessions are never
// shared, so concurrent users cannot alias each other's tables.
package session

import (
	"container/list"
	"sync"
	"time"

	"github.com/google/uuid"

	"faturamento/internal/core"
)

// Session is one analysis session: the coerced working table, the
// filter option domains enumerated from it, and ingest bookkeeping.
// Nothing here outlives the TTL; there is no durable storage.
type Session struct {
	ID          string
	Table       *core.Table
	Options     core.Options
	SkippedRows int
	CreatedAt   time.Time
}

// Store keeps live sessions in memory with TTL and size-based LRU
// eviction, so abandoned uploads age out instead of accumulating.
type Store struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
	now     func() time.Time
}

type entry struct {
	session   *Session
	expiresAt time.Time
}

// NewStore creates a session store holding at most maxSize sessions,
// each expiring ttl after creation.
func NewStore(maxSize int, ttl time.Duration) *Store {
	return &Store{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		now:     time.Now,
	}
}

// Create registers a new session for the given working table and
// returns it with a fresh identifier.
func (s *Store) Create(table *core.Table, skipped int) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := &Session{
		ID:          uuid.NewString(),
		Table:       table,
		Options:     table.Options(),
		SkippedRows: skipped,
		CreatedAt:   now,
	}
	elem := s.lru.PushFront(&entry{session: sess, expiresAt: now.Add(s.ttl)})
	s.items[sess.ID] = elem

	if s.lru.Len() > s.maxSize {
		if oldest := s.lru.Back(); oldest != nil {
			s.removeElement(oldest)
		}
	}
	return sess
}

// Get returns the live session with the given id, refreshing its LRU
// position. Expired sessions are removed and reported as absent.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[id]
	if !ok {
		return nil, false
	}
	e := elem.Value.(*entry)
	if s.now().After(e.expiresAt) {
		s.removeElement(elem)
		return nil, false
	}
	s.lru.MoveToFront(elem)
	return e.session, true
}

// Delete discards a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.items[id]; ok {
		s.removeElement(elem)
	}
}

// CleanExpired removes expired sessions and returns how many went.
func (s *Store) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var stale []*list.Element
	for elem := s.lru.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*entry).expiresAt) {
			stale = append(stale, elem)
		}
	}
	for _, elem := range stale {
		s.removeElement(elem)
	}
	return len(stale)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) removeElement(elem *list.Element) {
	e := elem.Value.(*entry)
	delete(s.items, e.session.ID)
	s.lru.Remove(elem)
}
