package sync

import (
	"testing"

	"chansync/pkg/models"

	"github.com/google/uuid"
)

func TestAccountLimitersReuseAndDefaults(t *testing.T) {
	limiters := newAccountLimiters()

	account := &models.ChannelAccount{
		RequestsPerMinute:  120,
		MaxConcurrentSyncs: 2,
	}
	account.ID = uuid.New()

	first := limiters.For(account)
	if first == nil {
		t.Fatal("For() returned nil")
	}
	if cap(first.sem) != 2 {
		t.Errorf("semaphore capacity = %d, expected 2", cap(first.sem))
	}
	if limiters.For(account) != first {
		t.Error("For() should return the cached limiter for the same account")
	}

	// Zeroed settings fall back to safe defaults
	unset := &models.ChannelAccount{}
	unset.ID = uuid.New()
	l := limiters.For(unset)
	if cap(l.sem) != 4 {
		t.Errorf("default semaphore capacity = %d, expected 4", cap(l.sem))
	}
	if burst := l.rate.Burst(); burst != 60 {
		t.Errorf("default burst = %d, expected 60", burst)
	}
}

func TestAccountLimitersForget(t *testing.T) {
	limiters := newAccountLimiters()
	account := &models.ChannelAccount{RequestsPerMinute: 10, MaxConcurrentSyncs: 1}
	account.ID = uuid.New()

	first := limiters.For(account)
	limiters.Forget(account.ID)

	account.MaxConcurrentSyncs = 8
	second := limiters.For(account)
	if second == first {
		t.Error("Forget() should drop the cached limiter")
	}
	if cap(second.sem) != 8 {
		t.Errorf("rebuilt semaphore capacity = %d, expected 8", cap(second.sem))
	}
}
