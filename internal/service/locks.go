package service

import (
	"fmt"
	"sync"
)

// keyedMutex serializes work per key. The progression services lock on
// (user, content) so concurrent requests from one learner cannot race
// on the answer map or double-deduct hearts.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its unlock function
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func lockKey(userID int64, scope, contentID string) string {
	return fmt.Sprintf("%d:%s:%s", userID, scope, contentID)
}
