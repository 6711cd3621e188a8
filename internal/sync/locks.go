package sync

import (
	"sync"

	"github.com/google/uuid"
)

// mappingLocks serializes sync attempts per mapping id. At most one in-flight
// sync per mapping: interleaved adapter calls would corrupt version counters.
type mappingLocks struct {
	mu    sync.Mutex
	inUse map[uuid.UUID]*mappingLock
}

type mappingLock struct {
	sync.Mutex
	refs int
}

func newMappingLocks() *mappingLocks {
	return &mappingLocks{inUse: make(map[uuid.UUID]*mappingLock)}
}

// TryAcquire takes the lock for a mapping without blocking. Returns false if
// another sync for the same mapping is already running.
func (l *mappingLocks) TryAcquire(id uuid.UUID) bool {
	l.mu.Lock()
	ml, ok := l.inUse[id]
	if !ok {
		ml = &mappingLock{}
		l.inUse[id] = ml
	}
	if ml.refs > 0 {
		l.mu.Unlock()
		return false
	}
	ml.refs++
	l.mu.Unlock()
	ml.Lock()
	return true
}

// Release frees the lock for a mapping
func (l *mappingLocks) Release(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ml, ok := l.inUse[id]
	if !ok {
		return
	}
	ml.refs--
	ml.Unlock()
	if ml.refs <= 0 {
		delete(l.inUse, id)
	}
}
