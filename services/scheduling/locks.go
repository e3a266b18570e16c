package scheduling

import (
	"fmt"
	"sync"
)

// keyedMutex hands out one mutex per (tenant, resource, date) key so that
// concurrent reservations only serialize when they contend for the same
// calendar day of the same resource. Entries are reference counted and
// removed once the last holder releases them: the key space grows with every
// new date, so idle entries must not accumulate.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*lockEntry)}
}

func slotKey(tenantID, resourceID, date string) string {
	return fmt.Sprintf("%s|%s|%s", tenantID, resourceID, date)
}

func (k *keyedMutex) lock(key string) {
	k.mu.Lock()
	e, exists := k.locks[key]
	if !exists {
		e = &lockEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.Lock()
}

func (k *keyedMutex) unlock(key string) {
	k.mu.Lock()
	e := k.locks[key]
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	e.Unlock()
}
