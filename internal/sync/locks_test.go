package sync

import (
	"testing"

	"github.com/google/uuid"
)

func TestMappingLocksMutualExclusion(t *testing.T) {
	locks := newMappingLocks()
	id := uuid.New()

	if !locks.TryAcquire(id) {
		t.Fatal("first TryAcquire should succeed")
	}
	if locks.TryAcquire(id) {
		t.Fatal("second TryAcquire on a held lock should fail")
	}

	locks.Release(id)

	if !locks.TryAcquire(id) {
		t.Fatal("TryAcquire after Release should succeed")
	}
	locks.Release(id)
}

func TestMappingLocksAreIndependentPerMapping(t *testing.T) {
	locks := newMappingLocks()
	a, b := uuid.New(), uuid.New()

	if !locks.TryAcquire(a) {
		t.Fatal("TryAcquire(a) should succeed")
	}
	if !locks.TryAcquire(b) {
		t.Fatal("TryAcquire(b) should succeed while a is held")
	}
	locks.Release(a)
	locks.Release(b)
}

func TestMappingLocksReleaseUnknownIsNoop(t *testing.T) {
	locks := newMappingLocks()
	locks.Release(uuid.New()) // must not panic
}
