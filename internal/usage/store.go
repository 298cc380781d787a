package usage

import (
	"context"
	"sync"
	"time"

	"server/internal/domain"
)

// Store is the keyed per-user generation counter. Consume must provide
// at-most-one-winner semantics at the quota boundary: two concurrent calls
// for the same user with one slot remaining must not both succeed.
type Store interface {
	// UsedToday returns the user's committed generation count for the
	// current UTC day.
	UsedToday(ctx context.Context, userID string) (int, error)
	// Consume atomically increments the user's counter for today. A limit
	// greater than zero is enforced; crossing it returns
	// domain.ErrQuotaExceeded without incrementing. limit <= 0 means
	// metered but unguarded.
	Consume(ctx context.Context, userID string, limit int) (used int, err error)
}

type counter struct {
	mu   sync.Mutex
	day  string
	used int
}

// MemoryStore is an in-process Store with one mutex per user, so requests
// for different users never contend. Counters reset at the UTC day boundary.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*counter

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// NewMemoryStore returns an empty in-memory counter store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[string]*counter), Now: time.Now}
}

func (s *MemoryStore) counterFor(userID string) *counter {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[userID]
	if !ok {
		c = &counter{}
		s.counters[userID] = c
	}
	return c
}

func (s *MemoryStore) today() string {
	return s.Now().UTC().Format("2006-01-02")
}

// UsedToday implements Store.
func (s *MemoryStore) UsedToday(ctx context.Context, userID string) (int, error) {
	c := s.counterFor(userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.day != s.today() {
		return 0, nil
	}
	return c.used, nil
}

// Consume implements Store.
func (s *MemoryStore) Consume(ctx context.Context, userID string, limit int) (int, error) {
	c := s.counterFor(userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	today := s.today()
	if c.day != today {
		c.day = today
		c.used = 0
	}
	if limit > 0 && c.used >= limit {
		return c.used, domain.ErrQuotaExceeded
	}
	c.used++
	return c.used, nil
}

var _ Store = (*MemoryStore)(nil)
