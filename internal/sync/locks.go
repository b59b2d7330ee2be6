package sync

import stdsync "sync"

// keyedLocks serializes syncs per (user, provider). Concurrent refreshes
// racing on the same refresh token can get one of the resulting access
// tokens invalidated by the provider, so the whole sync holds the key.
type keyedLocks struct {
	mu    stdsync.Mutex
	locks map[string]*stdsync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*stdsync.Mutex)}
}

func (k *keyedLocks) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &stdsync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
