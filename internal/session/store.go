package session

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/docview/internal/upload"
)

// Store holds the sessions of a running server, keyed by id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewStore creates an empty store. Sessions idle longer than ttl are
// removed by Sweep; ttl <= 0 keeps them until deleted.
func NewStore(ttl time.Duration, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// SetTTL changes the idle timeout.
func (st *Store) SetTTL(ttl time.Duration) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.ttl = ttl
}

// create registers a new session for a validated file.
func (st *Store) create(file *upload.File) *Session {
	sess := newSession(uuid.NewString(), file, st.now())

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	st.logger.Debug("session created", "id", sess.ID, "file", file.Name)
	return sess
}

// Get returns a session and marks it as accessed.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	sess.touch(st.now())
	return sess, nil
}

// Delete removes a session.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(st.sessions, id)
	return nil
}

// List returns all sessions, newest first.
func (st *Store) List() []Summary {
	st.mu.RLock()
	out := make([]Summary, 0, len(st.sessions))
	for _, sess := range st.sessions {
		out = append(out, sess.Summary())
	}
	st.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Created.Equal(out[j].Created) {
			return out[i].ID < out[j].ID
		}
		return out[i].Created.After(out[j].Created)
	})
	return out
}

// Len returns the number of sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes sessions idle longer than the ttl as of now. Sessions with
// an action in flight are kept. It returns the number removed.
func (st *Store) Sweep(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.ttl <= 0 {
		return 0
	}

	removed := 0
	for id, sess := range st.sessions {
		if sess.anyBusy() {
			continue
		}
		if now.Sub(sess.idleSince()) > st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		st.logger.Info("swept idle sessions", "removed", removed, "remaining", len(st.sessions))
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (st *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep(st.now())
		}
	}
}
