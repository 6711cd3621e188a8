package sync

import (
	"sync"
	"time"

	"chansync/pkg/models"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// accountLimiters keeps one token-bucket limiter and one concurrency
// semaphore per channel account. Marketplaces throttle and ban aggressive
// callers, so every adapter call must pass through the account's limiter.
type accountLimiters struct {
	mu       sync.Mutex
	limiters map[uuid.UUID]*accountLimiter
}

type accountLimiter struct {
	rate *rate.Limiter
	sem  chan struct{}
}

func newAccountLimiters() *accountLimiters {
	return &accountLimiters{limiters: make(map[uuid.UUID]*accountLimiter)}
}

// For returns the limiter for an account, creating it from the account's
// throttling configuration on first use
func (a *accountLimiters) For(account *models.ChannelAccount) *accountLimiter {
	a.mu.Lock()
	defer a.mu.Unlock()
	if l, ok := a.limiters[account.ID]; ok {
		return l
	}
	rpm := account.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	conc := account.MaxConcurrentSyncs
	if conc <= 0 {
		conc = 4
	}
	l := &accountLimiter{
		rate: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm),
		sem:  make(chan struct{}, conc),
	}
	a.limiters[account.ID] = l
	return l
}

// Forget drops the cached limiter, so changed account settings take effect
func (a *accountLimiters) Forget(accountID uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.limiters, accountID)
}
