// Package retry runs an operation a bounded number of times with exponential
// backoff and jitter, stopping early when the context ends or the error is not
// retryable.
package retry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	_defaultMaxAttempts    = 3
	_defaultBaseRetryDelay = 100 * time.Millisecond
	_defaultMaxRetryDelay  = 5 * time.Second

	_backoffMultiplier = 2
)

type Policy struct {
	maxAttempts    int
	baseRetryDelay time.Duration
	maxRetryDelay  time.Duration
	retryable      func(error) bool
	onRetry        func(attempt int, delay time.Duration, err error)
}

func New(opts ...Option) (*Policy, error) {
	p := &Policy{
		maxAttempts:    _defaultMaxAttempts,
		baseRetryDelay: _defaultBaseRetryDelay,
		maxRetryDelay:  _defaultMaxRetryDelay,
		retryable:      func(error) bool { return true },
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("retry.New: validation: %w", err)
	}
	return p, nil
}

func (p *Policy) MaxAttempts() int {
	return p.maxAttempts
}

// Do calls fn until it succeeds, returns a non-retryable error, the attempts
// are used up or ctx is done. The last error from fn is returned.
func (p *Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	const op = "retry.Do"

	var err error
	currentBackoff := p.baseRetryDelay
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if err != nil {
				return err
			}
			return fmt.Errorf("%s: context: %w", op, ctxErr)
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if attempt == p.maxAttempts || !p.retryable(err) {
			return err
		}

		delay := p.jitter(currentBackoff)
		if p.onRetry != nil {
			p.onRetry(attempt, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return err
		}

		nextBackoff := currentBackoff * _backoffMultiplier
		if nextBackoff > p.maxRetryDelay {
			nextBackoff = p.maxRetryDelay
		}
		currentBackoff = nextBackoff
	}
	return err
}

func (p *Policy) jitter(backoff time.Duration) time.Duration {
	upper := int64(backoff * _backoffMultiplier)
	if upper <= 0 {
		return 0
	}
	delay := time.Duration(rand.Int64N(upper))
	if delay > p.maxRetryDelay {
		delay = p.maxRetryDelay
	}
	return delay
}
