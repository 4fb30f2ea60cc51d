package service

type Option func(*ReassignmentService)

// WithWaiter replaces the grace wait, mostly so tests can skip the sleep.
func WithWaiter(w Waiter) Option {
	return func(rs *ReassignmentService) {
		rs.wait = w
	}
}
