package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

// sweepEvery bounds how often Create scans for expired sessions.
const sweepEvery = time.Minute

type session struct {
	userID  int64
	expires time.Time
}

// Sessions is a process-local domain.SessionStore.
type Sessions struct {
	mu        sync.Mutex
	m         map[string]session
	now       func() time.Time
	lastSweep time.Time
}

var _ domain.SessionStore = (*Sessions)(nil)

func NewSessions() *Sessions {
	return &Sessions{m: map[string]session{}, now: time.Now}
}

// WithClock replaces the clock used for expiry.
func (s *Sessions) WithClock(now func() time.Time) *Sessions {
	s.now = now
	return s
}

func (s *Sessions) Create(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	sid := uuid.NewString()
	s.mu.Lock()
	now := s.now()
	if now.Sub(s.lastSweep) >= sweepEvery {
		s.sweepLocked(now)
	}
	s.m[sid] = session{userID: userID, expires: now.Add(ttl)}
	s.mu.Unlock()
	observability.ObserveSession("memory", "create")
	return sid, nil
}

func (s *Sessions) Lookup(ctx context.Context, sid string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss, ok := s.m[sid]
	if ok && !s.now().Before(ss.expires) {
		delete(s.m, sid)
		ok = false
	}
	if !ok {
		observability.ObserveSession("memory", "miss")
		return 0, domain.ErrUnauthorized
	}
	observability.ObserveSession("memory", "hit")
	return ss.userID, nil
}

func (s *Sessions) Delete(ctx context.Context, sid string) error {
	observability.ObserveSession("memory", "del")
	s.mu.Lock()
	delete(s.m, sid)
	s.mu.Unlock()
	return nil
}

// Len reports how many sessions are held, expired ones included until swept.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

func (s *Sessions) sweepLocked(now time.Time) {
	for sid, ss := range s.m {
		if !now.Before(ss.expires) {
			delete(s.m, sid)
		}
	}
	s.lastSweep = now
}
