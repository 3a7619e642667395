package interview

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Store keeps in-flight sessions in memory, keyed by session identifier.
// Sessions are created at start and evicted by the sweeper once their
// retention window passes; nothing survives a process restart.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewStore builds a Store. Sessions older than ttl (measured from start) are
// eligible for eviction.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Put registers a session.
func (s *Store) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

// Get returns the session for the identifier.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len reports the current session count.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep evicts sessions whose retention window has passed and returns the
// number removed.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.StartedAt) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// ScheduleSweeper registers a periodic eviction job on the provided cron
// runner. The caller owns starting and stopping the runner.
func (s *Store) ScheduleSweeper(c *cron.Cron, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	_, err := c.AddFunc("@every 1m", func() {
		if removed := s.Sweep(time.Now()); removed > 0 {
			logger.Info("evicted expired interview sessions",
				zap.Int("removed", removed),
				zap.Int("remaining", s.Len()),
			)
		}
	})
	return err
}
