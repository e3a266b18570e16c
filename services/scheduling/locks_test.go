package scheduling

import (
	"fmt"
	"sync"
	"testing"
)

func TestKeyedMutex_MutualExclusion(t *testing.T) {
	km := newKeyedMutex()
	key := slotKey("tenant-1", "bay1", "2024-09-02")

	const goroutines = 8
	const iterations = 200
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				km.lock(key)
				counter++
				km.unlock(key)
			}
		}()
	}
	wg.Wait()

	if counter != goroutines*iterations {
		t.Fatalf("counter = %d, want %d", counter, goroutines*iterations)
	}
}

func TestKeyedMutex_DropsIdleEntries(t *testing.T) {
	km := newKeyedMutex()

	// A busy day of reservations across many dates must not leave the lock
	// table holding an entry per date afterwards.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for day := 1; day <= 28; day++ {
				key := slotKey("tenant-1", "bay1", fmt.Sprintf("2024-09-%02d", day))
				km.lock(key)
				km.unlock(key)
			}
		}()
	}
	wg.Wait()

	km.mu.Lock()
	retained := len(km.locks)
	km.mu.Unlock()
	if retained != 0 {
		t.Fatalf("lock table retained %d idle entries, want 0", retained)
	}
}
