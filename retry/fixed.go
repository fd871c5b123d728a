package retry

import (
	"context"
	"time"
)

// FixedPolicy waits the same interval, give or take the jitter, before every retry.
type FixedPolicy struct {
	attempted int
	attempts  int
	jitter    float64
	interval  time.Duration
}

var _ Policy = (*FixedPolicy)(nil)

// Fixed returns a policy allowing the given number of attempts in total, separated by interval.
// The default jitter is 0.1.
func Fixed(attempts int, interval time.Duration) *FixedPolicy {
	validateAttempts(attempts)
	if interval < 0 {
		panic("interval can't be < 0")
	}
	return &FixedPolicy{
		attempts: attempts,
		interval: interval,
		jitter:   0.1,
	}
}

func (r *FixedPolicy) WithJitter(jitter float64) *FixedPolicy {
	validateJitter(jitter)
	r.jitter = jitter
	return r
}

func (r *FixedPolicy) Attempt(ctx context.Context) (ok bool) {
	defer func() {
		if ok {
			r.attempted += 1
		}
	}()

	if r.attempted == 0 {
		return ctx.Err() == nil
	}

	if r.attempted >= r.attempts {
		return false
	}

	return wait(ctx, r.interval, r.jitter)
}

func (r *FixedPolicy) Derive() Policy {
	return Fixed(r.attempts, r.interval).WithJitter(r.jitter)
}
