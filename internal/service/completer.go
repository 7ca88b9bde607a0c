package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Completer is the raw LLM transport: one prompt in, one textual completion out.
// Prompt construction and response parsing belong to OracleService.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// BreakerReporter is implemented by transports that guard their backend with
// a circuit breaker.
type BreakerReporter interface {
	ResetCircuitBreaker()
	GetCircuitBreakerStatus() (consecutiveErrors int, isOpen bool)
}

var ErrCircuitOpen = errors.New("circuit breaker open")

type retryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// retryPolicyWith keeps the default delays; maxRetries <= 0 keeps the default count.
func retryPolicyWith(maxRetries int) retryPolicy {
	p := defaultRetryPolicy()
	if maxRetries > 0 {
		p.MaxRetries = maxRetries
	}
	return p
}

// backoff is exponential in attempt with up to 25% jitter subtracted.
func (p retryPolicy) backoff(attempt int) time.Duration {
	delay := p.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	jitter := time.Duration(float64(delay) * 0.25 * rand.Float64())
	return delay - jitter
}

// circuitBreaker opens after max consecutive failures and lets one trial
// request through per cooldown period while open. Safe for concurrent use.
type circuitBreaker struct {
	max      int32
	cooldown time.Duration
	failures atomic.Int32
	openedAt atomic.Int64
}

func newCircuitBreaker(max int32, cooldown time.Duration) *circuitBreaker {
	return &circuitBreaker{max: max, cooldown: cooldown}
}

func (b *circuitBreaker) allow(now time.Time) error {
	n := b.failures.Load()
	if n < b.max {
		return nil
	}
	opened := b.openedAt.Load()
	if now.UnixNano()-opened >= int64(b.cooldown) && b.openedAt.CompareAndSwap(opened, now.UnixNano()) {
		return nil
	}
	return fmt.Errorf("%w: %d consecutive errors", ErrCircuitOpen, n)
}

func (b *circuitBreaker) success() {
	b.failures.Store(0)
}

func (b *circuitBreaker) failure(now time.Time) {
	if b.failures.Add(1) == b.max {
		b.openedAt.Store(now.UnixNano())
	}
}

func (b *circuitBreaker) status() (consecutiveErrors int, isOpen bool) {
	n := b.failures.Load()
	return int(n), n >= b.max
}

// withRetry runs fn until it succeeds, fails with a non-retryable error or
// the retry budget is spent. Breaker state is updated once per call.
func withRetry(ctx context.Context, op string, p retryPolicy, b *circuitBreaker, log *zap.Logger, retryable func(error) bool, fn func(context.Context) error) error {
	if err := b.allow(time.Now()); err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := p.backoff(attempt)
			log.Debug("retrying", zap.String("op", op), zap.Int("attempt", attempt), zap.Duration("delay", delay))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				b.failure(time.Now())
				return fmt.Errorf("%s: context done during retry: %w", op, ctx.Err())
			}
		}

		err := fn(ctx)
		if err == nil {
			b.success()
			return nil
		}
		lastErr = err

		if !retryable(err) {
			b.failure(time.Now())
			return fmt.Errorf("%s failed: %w", op, err)
		}
		log.Warn("retryable error", zap.String("op", op), zap.Int("attempt", attempt+1), zap.Error(err))
	}

	b.failure(time.Now())
	return fmt.Errorf("max retries (%d) exceeded for %s: %w", p.MaxRetries, op, lastErr)
}
