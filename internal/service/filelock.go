package service

import "sync"

// fileLocks serializes extraction per file so two workers never process the
// same bytes at once. Locks are keyed by content hash and reference-counted,
// so idle keys do not accumulate.
type fileLocks struct {
	mu    sync.Mutex
	locks map[string]*fileLock
}

type fileLock struct {
	mu   sync.Mutex
	refs int
}

func newFileLocks() *fileLocks {
	return &fileLocks{locks: make(map[string]*fileLock)}
}

// Lock acquires the lock for key, creating it on first use.
func (f *fileLocks) Lock(key string) {
	f.mu.Lock()
	l, ok := f.locks[key]
	if !ok {
		l = &fileLock{}
		f.locks[key] = l
	}
	l.refs++
	f.mu.Unlock()

	l.mu.Lock()
}

// Unlock releases the lock for key and drops it once no goroutine holds or
// waits on it.
func (f *fileLocks) Unlock(key string) {
	f.mu.Lock()
	l, ok := f.locks[key]
	if !ok {
		f.mu.Unlock()
		return
	}
	l.refs--
	if l.refs == 0 {
		delete(f.locks, key)
	}
	f.mu.Unlock()

	l.mu.Unlock()
}
