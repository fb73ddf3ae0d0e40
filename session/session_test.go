package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoAuthRequired(t *testing.T) {
	s := New(false)
	assert.True(t, s.Authenticated())
	assert.False(t, s.Locked())
}

func TestGrant(t *testing.T) {
	s := New(true)
	assert.False(t, s.Authenticated())

	s.Grant()
	assert.True(t, s.Authenticated())
	assert.Equal(t, uint8(0), s.FailedAttempts())
}

func TestRejectCountsToLockout(t *testing.T) {
	s := New(true)

	attempts, locked := s.Reject()
	assert.Equal(t, uint8(1), attempts)
	assert.False(t, locked)

	attempts, locked = s.Reject()
	assert.Equal(t, uint8(2), attempts)
	assert.False(t, locked)

	attempts, locked = s.Reject()
	assert.Equal(t, uint8(3), attempts)
	assert.True(t, locked)
	assert.True(t, s.Locked())
	assert.False(t, s.Authenticated())
}

func TestLockedIsTerminal(t *testing.T) {
	s := New(true)
	s.Reject()
	s.Reject()
	s.Reject()

	// a correct password after lockout changes nothing
	s.Grant()
	assert.True(t, s.Locked())

	attempts, locked := s.Reject()
	assert.Equal(t, uint8(3), attempts)
	assert.True(t, locked)
}

func TestGrantResetsCounter(t *testing.T) {
	s := New(true)
	s.Reject()
	s.Reject()
	s.Grant()
	assert.Equal(t, uint8(0), s.FailedAttempts())
	assert.True(t, s.Authenticated())
}
