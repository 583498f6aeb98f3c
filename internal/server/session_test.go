package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSessionManager_ReusesCoordinatorPerSession(t *testing.T) {
	s := NewSessionManager(&stubValidator{}, time.Millisecond, nil, zap.NewNop())
	defer s.Close()

	c1 := s.Coordinator("guest-1")
	c2 := s.Coordinator("guest-1")
	other := s.Coordinator("guest-2")

	assert.Same(t, c1, c2)
	assert.NotSame(t, c1, other)
}

func TestSessionManager_EvictsIdleSessions(t *testing.T) {
	s := NewSessionManager(&stubValidator{}, time.Millisecond, nil, zap.NewNop())
	defer s.Close()

	idle := s.Coordinator("guest-idle")
	s.Coordinator("guest-active")

	// Age only the idle session past the TTL.
	s.mu.Lock()
	s.sessions["guest-idle"].lastSeen = time.Now().Add(-s.idleTTL - time.Minute)
	s.mu.Unlock()

	s.evictIdle(time.Now())

	s.mu.Lock()
	_, idleKept := s.sessions["guest-idle"]
	_, activeKept := s.sessions["guest-active"]
	s.mu.Unlock()
	require.False(t, idleKept)
	require.True(t, activeKept)

	// A returning session gets a fresh coordinator, not the closed one.
	assert.NotSame(t, idle, s.Coordinator("guest-idle"))
}

func TestSessionManager_TouchResetsIdleDeadline(t *testing.T) {
	s := NewSessionManager(&stubValidator{}, time.Millisecond, nil, zap.NewNop())
	defer s.Close()

	s.Coordinator("guest-1")
	s.mu.Lock()
	s.sessions["guest-1"].lastSeen = time.Now().Add(-s.idleTTL - time.Minute)
	s.mu.Unlock()

	// Touching the session before the sweep keeps it alive.
	s.Coordinator("guest-1")
	s.evictIdle(time.Now())

	s.mu.Lock()
	_, kept := s.sessions["guest-1"]
	s.mu.Unlock()
	assert.True(t, kept)
}

func TestSessionManager_CloseIsIdempotent(t *testing.T) {
	s := NewSessionManager(&stubValidator{}, time.Millisecond, nil, zap.NewNop())
	s.Coordinator("guest-1")

	s.Close()
	s.Close()

	s.mu.Lock()
	remaining := len(s.sessions)
	s.mu.Unlock()
	assert.Zero(t, remaining)
}
