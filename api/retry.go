package api

import (
	"context"
	"fmt"
	"time"

	"github.com/jmorales/scout/internal/logger"
)

// RetryPolicy is a bounded retry with a fixed delay between attempts. It is
// deliberately not wired into the request client; the only caller today is
// the startup user sync.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultSyncRetry matches the sync-on-start behavior: three attempts two
// seconds apart.
var DefaultSyncRetry = RetryPolicy{MaxAttempts: 3, Backoff: 2 * time.Second}

// Do runs fn until it succeeds, attempts are exhausted, or ctx is done
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-time.After(p.Backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := fn(); err != nil {
			lastErr = err
			logger.Debugf("retry: attempt %d/%d failed: %v", i+1, attempts, err)
			continue
		}
		return nil
	}

	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
