package server

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// sessionLocks serializes turn submissions per session. Concurrent submits to
// the same session queue behind a weighted semaphore of capacity one; submits
// to different sessions proceed independently. Entries are reference-counted
// and evicted once no submit holds or waits on them, so the map does not grow
// with the lifetime total of sessions served.
type sessionLocks struct {
	mu   sync.Mutex
	sems map[uuid.UUID]*sessionLock
}

type sessionLock struct {
	sem  *semaphore.Weighted
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{sems: make(map[uuid.UUID]*sessionLock)}
}

// acquire blocks until the session's lock is held or the context is done.
// The returned release function must be called exactly once.
func (l *sessionLocks) acquire(ctx context.Context, sessionID uuid.UUID) (func(), error) {
	l.mu.Lock()
	entry, ok := l.sems[sessionID]
	if !ok {
		entry = &sessionLock{sem: semaphore.NewWeighted(1)}
		l.sems[sessionID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	if err := entry.sem.Acquire(ctx, 1); err != nil {
		l.unref(sessionID, entry)
		return nil, err
	}
	return func() {
		entry.sem.Release(1)
		l.unref(sessionID, entry)
	}, nil
}

// unref drops one reference and evicts the entry when nothing holds or waits
// on it anymore.
func (l *sessionLocks) unref(sessionID uuid.UUID, entry *sessionLock) {
	l.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.sems, sessionID)
	}
	l.mu.Unlock()
}
