package server

import (
	"context"
	"sync"
	"time"

	"github.com/MonkyMars/mamabloemetjes-sub001/internal/domain"
	"github.com/MonkyMars/mamabloemetjes-sub001/internal/validation"
	"go.uber.org/zap"
)

const (
	// sessionIdleTTL is how long a coordinator survives without a request
	// touching it. Guest sessions churn constantly, so idle ones are swept
	// to keep the map bounded.
	sessionIdleTTL    = 30 * time.Minute
	sessionSweepEvery = 5 * time.Minute
)

// MismatchPublisher receives rejected validations for the audit trail.
type MismatchPublisher interface {
	PublishMismatch(ctx context.Context, userID string, resp *domain.PriceValidationResponse) error
}

type sessionEntry struct {
	coord    *validation.Coordinator
	lastSeen time.Time
}

// SessionManager owns one validation coordinator per cart session, created on
// demand. Coordinators are stateful (debounce timer, in-flight guard, last
// validated key), so they must be reused across requests from the same
// session, not rebuilt per call. Sessions idle past sessionIdleTTL are closed
// and evicted by a background sweep.
type SessionManager struct {
	validator validation.Validator
	debounce  time.Duration
	publisher MismatchPublisher
	logger    *zap.Logger
	idleTTL   time.Duration

	mu       sync.Mutex
	sessions map[string]*sessionEntry
	closed   bool

	sweepDone chan struct{}
}

func NewSessionManager(v validation.Validator, debounce time.Duration, publisher MismatchPublisher, logger *zap.Logger) *SessionManager {
	s := &SessionManager{
		validator: v,
		debounce:  debounce,
		publisher: publisher,
		logger:    logger,
		idleTTL:   sessionIdleTTL,
		sessions:  make(map[string]*sessionEntry),
		sweepDone: make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Coordinator returns the session's coordinator, creating it on first use and
// refreshing its idle deadline.
func (s *SessionManager) Coordinator(sessionID string) *validation.Coordinator {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[sessionID]; ok {
		e.lastSeen = time.Now()
		return e.coord
	}

	c := validation.NewCoordinator(s.validator, s.debounce, s.logger, s.onChange(sessionID))
	if !s.closed {
		s.sessions[sessionID] = &sessionEntry{coord: c, lastSeen: time.Now()}
	}
	return c
}

func (s *SessionManager) onChange(sessionID string) func(domain.ValidationState) {
	return func(st domain.ValidationState) {
		if st.Response == nil || st.Response.IsValid || s.publisher == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.publisher.PublishMismatch(ctx, sessionID, st.Response); err != nil {
			s.logger.Warn("failed to publish mismatch audit event",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}
}

func (s *SessionManager) sweep() {
	ticker := time.NewTicker(sessionSweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.evictIdle(time.Now())
		case <-s.sweepDone:
			return
		}
	}
}

// evictIdle closes and removes every coordinator whose session has not been
// touched within the idle TTL.
func (s *SessionManager) evictIdle(now time.Time) {
	s.mu.Lock()
	var evicted []*validation.Coordinator
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) >= s.idleTTL {
			evicted = append(evicted, e.coord)
			delete(s.sessions, id)
		}
	}
	n := len(evicted)
	s.mu.Unlock()

	// Close outside the lock; Close may wait on coordinator internals.
	for _, c := range evicted {
		c.Close()
	}
	if n > 0 {
		s.logger.Debug("evicted idle validation sessions", zap.Int("count", n))
	}
}

// Close shuts down the sweep and every coordinator; pending timers are
// cancelled.
func (s *SessionManager) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for _, e := range s.sessions {
		e.coord.Close()
	}
	s.sessions = map[string]*sessionEntry{}
	s.mu.Unlock()

	close(s.sweepDone)
}
