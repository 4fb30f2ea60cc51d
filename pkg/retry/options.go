package retry

import (
	"errors"
	"time"
)

type Option func(*Policy)

func MaxAttempts(attempts int) Option {
	return func(p *Policy) {
		p.maxAttempts = attempts
	}
}

func BaseRetryDelay(delay time.Duration) Option {
	return func(p *Policy) {
		p.baseRetryDelay = delay
	}
}

func MaxRetryDelay(delay time.Duration) Option {
	return func(p *Policy) {
		p.maxRetryDelay = delay
	}
}

// RetryIf limits retries to errors accepted by fn.
func RetryIf(fn func(error) bool) Option {
	return func(p *Policy) {
		p.retryable = fn
	}
}

// OnRetry is called before each wait.
func OnRetry(fn func(attempt int, delay time.Duration, err error)) Option {
	return func(p *Policy) {
		p.onRetry = fn
	}
}

func (p *Policy) validate() error {
	if p.maxAttempts <= 0 {
		return errors.New("invalid maxAttempts: must be > 0")
	}

	if p.baseRetryDelay <= 0 {
		return errors.New("invalid base retry delay: must be > 0")
	}

	if p.maxRetryDelay <= 0 {
		return errors.New("invalid max retry delay: must be > 0")
	}

	if p.baseRetryDelay > p.maxRetryDelay {
		return errors.New("baseRetryDelay cannot exceed maxRetryDelay")
	}

	if p.retryable == nil {
		return errors.New("invalid retryable predicate: must not be nil")
	}
	return nil
}
