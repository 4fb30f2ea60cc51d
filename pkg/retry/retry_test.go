package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/retry"

	"github.com/stretchr/testify/require"
)

var (
	errTemporary = errors.New("temporary")
	errPermanent = errors.New("permanent")
)

func newPolicy(t *testing.T, opts ...retry.Option) *retry.Policy {
	t.Helper()
	base := []retry.Option{
		retry.BaseRetryDelay(time.Millisecond),
		retry.MaxRetryDelay(2 * time.Millisecond),
	}
	p, err := retry.New(append(base, opts...)...)
	require.NoError(t, err)
	return p
}

func TestPolicy_Do(t *testing.T) {
	testCases := []struct {
		desc          string
		maxAttempts   int
		results       []error
		expectedErr   error
		expectedCalls int
	}{
		{
			desc:          "SuccessFirstAttempt",
			maxAttempts:   3,
			results:       []error{nil},
			expectedCalls: 1,
		},
		{
			desc:          "SuccessAfterRetry",
			maxAttempts:   3,
			results:       []error{errTemporary, nil},
			expectedCalls: 2,
		},
		{
			desc:          "AttemptsExhausted",
			maxAttempts:   2,
			results:       []error{errTemporary, errTemporary, nil},
			expectedErr:   errTemporary,
			expectedCalls: 2,
		},
		{
			desc:          "NonRetryableStopsImmediately",
			maxAttempts:   3,
			results:       []error{errPermanent, nil},
			expectedErr:   errPermanent,
			expectedCalls: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			p := newPolicy(t,
				retry.MaxAttempts(tc.maxAttempts),
				retry.RetryIf(func(err error) bool { return errors.Is(err, errTemporary) }),
			)

			calls := 0
			err := p.Do(context.Background(), func(context.Context) error {
				res := tc.results[calls]
				calls++
				return res
			})

			require.Equal(t, tc.expectedCalls, calls)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestPolicy_DoOnRetryHook(t *testing.T) {
	var attempts []int
	p := newPolicy(t,
		retry.MaxAttempts(3),
		retry.OnRetry(func(attempt int, _ time.Duration, err error) {
			require.ErrorIs(t, err, errTemporary)
			attempts = append(attempts, attempt)
		}),
	)

	err := p.Do(context.Background(), func(context.Context) error { return errTemporary })
	require.ErrorIs(t, err, errTemporary)
	require.Equal(t, []int{1, 2}, attempts)
}

func TestPolicy_DoCanceledContext(t *testing.T) {
	p := newPolicy(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := p.Do(ctx, func(context.Context) error {
		called = true
		return nil
	})
	require.False(t, called)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNew_Validation(t *testing.T) {
	_, err := retry.New(retry.MaxAttempts(0))
	require.Error(t, err)

	_, err = retry.New(retry.BaseRetryDelay(time.Second), retry.MaxRetryDelay(time.Millisecond))
	require.Error(t, err)
}
