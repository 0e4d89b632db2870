package search

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultSequencerSessions = 10000
	defaultSequencerTTL      = 30 * time.Minute
)

// Sequencer numbers searches per session so a slow response can be recognised
// as stale once a newer search for the same session has started. Sessions are
// forgotten after ttl without a search, or when more than size are live.
type Sequencer struct {
	mu     sync.Mutex
	latest *expirable.LRU[string, uint64]
}

func NewSequencer(size int, ttl time.Duration) *Sequencer {
	if size <= 0 {
		size = defaultSequencerSessions
	}
	if ttl <= 0 {
		ttl = defaultSequencerTTL
	}
	return &Sequencer{latest: expirable.NewLRU[string, uint64](size, nil, ttl)}
}

// Next starts a new search for session and returns its sequence number.
func (s *Sequencer) Next(session string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq, _ := s.latest.Get(session)
	seq++
	s.latest.Add(session, seq)
	return seq
}

// IsLatest reports whether seq is still the newest search for session.
// A session evicted meanwhile has no newer search on record, so seq counts as latest.
func (s *Sequencer) IsLatest(session string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	latest, ok := s.latest.Peek(session)
	return !ok || latest == seq
}

// Len is the number of sessions currently tracked.
func (s *Sequencer) Len() int {
	return s.latest.Len()
}
