package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLocks_SerializesSameSession(t *testing.T) {
	locks := newSessionLocks()
	sessionID := uuid.New()

	release, err := locks.acquire(context.Background(), sessionID)
	require.NoError(t, err)

	var inCritical int
	var maxInCritical int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := locks.acquire(context.Background(), sessionID)
			require.NoError(t, err)
			mu.Lock()
			inCritical++
			if inCritical > maxInCritical {
				maxInCritical = inCritical
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inCritical--
			mu.Unlock()
			r()
		}()
	}

	release()
	wg.Wait()

	assert.Equal(t, 1, maxInCritical, "only one turn may hold a session at a time")
}

func TestSessionLocks_IndependentSessionsDoNotBlock(t *testing.T) {
	locks := newSessionLocks()

	releaseA, err := locks.acquire(context.Background(), uuid.New())
	require.NoError(t, err)
	defer releaseA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	releaseB, err := locks.acquire(ctx, uuid.New())
	require.NoError(t, err, "a different session must not wait on the first")
	releaseB()
}

func TestSessionLocks_EvictsIdleEntries(t *testing.T) {
	locks := newSessionLocks()
	sessionID := uuid.New()

	release, err := locks.acquire(context.Background(), sessionID)
	require.NoError(t, err)

	locks.mu.Lock()
	assert.Len(t, locks.sems, 1)
	locks.mu.Unlock()

	release()

	locks.mu.Lock()
	assert.Empty(t, locks.sems, "released sessions must not accumulate in the lock map")
	locks.mu.Unlock()

	// A failed acquire must not leak the entry it waited on.
	releaseA, err := locks.acquire(context.Background(), sessionID)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = locks.acquire(ctx, sessionID)
	require.Error(t, err)

	releaseA()

	locks.mu.Lock()
	assert.Empty(t, locks.sems)
	locks.mu.Unlock()
}

func TestSessionLocks_AcquireHonorsContext(t *testing.T) {
	locks := newSessionLocks()
	sessionID := uuid.New()

	release, err := locks.acquire(context.Background(), sessionID)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = locks.acquire(ctx, sessionID)
	assert.Error(t, err)
}
