// Package session keeps one match per browser session. Each entry carries its
// own lock so concurrent requests for the same session are serialized while
// unrelated sessions proceed in parallel.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pefman/arena-duel/internal/game"
	"github.com/pefman/arena-duel/internal/models"
)

var ErrNotFound = errors.New("session not found")

// Match is the per-session state: the pending picks and the arena they fight in.
type Match struct {
	Hero  *models.Loadout
	Enemy *models.Loadout
	Arena *game.Arena
}

type entry struct {
	mu      sync.Mutex
	match   Match
	touched time.Time
}

// Store is an in-memory session registry with idle eviction.
type Store struct {
	mu       sync.Mutex
	entries  map[string]*entry
	ttl      time.Duration
	newArena func() *game.Arena
	now      func() time.Time
	log      zerolog.Logger
}

type Option func(*Store)

// WithArenaFactory sets how fresh arenas are built for new sessions.
func WithArenaFactory(f func() *game.Arena) Option { return func(s *Store) { s.newArena = f } }

func WithLogger(l zerolog.Logger) Option { return func(s *Store) { s.log = l } }

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// NewStore creates a registry. A non-positive ttl disables eviction.
func NewStore(ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
		newArena: func() *game.Arena {
			return game.NewArena()
		},
		now: time.Now,
		log: zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open returns id when it names a live session and a freshly created session
// id otherwise.
func (s *Store) Open(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok && id != "" {
		e.touched = s.now()
		return id
	}
	id = uuid.New().String()
	s.entries[id] = &entry{
		match:   Match{Arena: s.newArena()},
		touched: s.now(),
	}
	s.log.Debug().Str("session", id).Msg("session created")
	return id
}

// With runs fn while holding the session's lock. fn must not retain m.
func (s *Store) With(id string, fn func(m *Match) error) error {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok {
		e.touched = s.now()
	}
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&e.match)
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops every session idle for longer than the ttl and reports how
// many were removed.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.entries {
		if e.touched.Before(cutoff) {
			delete(s.entries, id)
			n++
		}
	}
	if n > 0 {
		s.log.Info().Int("evicted", n).Int("live", len(s.entries)).Msg("idle sessions swept")
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.ttl <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep()
		}
	}
}
