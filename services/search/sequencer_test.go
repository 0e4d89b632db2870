package search

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSequencer(t *testing.T) {
	s := NewSequencer(0, 0)
	first := s.Next("alice")
	assert.Equal(t, uint64(1), first)
	assert.True(t, s.IsLatest("alice", first))

	second := s.Next("alice")
	assert.False(t, s.IsLatest("alice", first))
	assert.True(t, s.IsLatest("alice", second))

	assert.Equal(t, uint64(1), s.Next("bob"))
	assert.True(t, s.IsLatest("alice", second))
}

func TestSequencerConcurrent(t *testing.T) {
	s := NewSequencer(0, 0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Next("shared")
		}()
	}
	wg.Wait()
	assert.True(t, s.IsLatest("shared", 50))
}

func TestSequencerBoundsSessions(t *testing.T) {
	s := NewSequencer(100, time.Hour)
	for i := 0; i < 10000; i++ {
		s.Next(fmt.Sprintf("session-%d", i))
	}
	assert.Equal(t, 100, s.Len())

	// The most recent sessions survive eviction.
	assert.False(t, s.IsLatest("session-9999", 2))
	assert.True(t, s.IsLatest("session-9999", 1))
}

func TestSequencerForgetsIdleSessions(t *testing.T) {
	s := NewSequencer(10, 50*time.Millisecond)
	s.Next("idle")
	assert.Eventually(t, func() bool { return s.Len() == 0 }, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, uint64(1), s.Next("idle"))
}
