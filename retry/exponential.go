package retry

import (
	"context"
	"math"
	"time"
)

// ExponentialPolicy multiplies the interval by the base after every retry, up to maxInterval.
type ExponentialPolicy struct {
	attempted   int
	attempts    int
	jitter      float64
	base        float64
	minInterval time.Duration
	maxInterval time.Duration
	maxReached  bool
}

var _ Policy = (*ExponentialPolicy)(nil)

// Exponential returns a policy allowing the given number of attempts in total. The first retry
// waits minInterval. The default base is 2 and the default jitter is 0.1.
func Exponential(attempts int, minInterval, maxInterval time.Duration) *ExponentialPolicy {
	validateAttempts(attempts)
	if minInterval <= 0 {
		panic("minInterval can't be <= 0")
	}
	if minInterval >= maxInterval {
		panic("minInterval can't be >= maxInterval")
	}

	return &ExponentialPolicy{
		attempts:    attempts,
		minInterval: minInterval,
		maxInterval: maxInterval,
		base:        2,
		jitter:      0.1,
	}
}

func (r *ExponentialPolicy) WithBase(base float64) *ExponentialPolicy {
	if base <= 1 {
		panic("base can't be <= 1")
	}
	r.base = base
	return r
}

func (r *ExponentialPolicy) WithJitter(jitter float64) *ExponentialPolicy {
	validateJitter(jitter)
	r.jitter = jitter
	return r
}

func (r *ExponentialPolicy) Attempt(ctx context.Context) (ok bool) {
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

	var interval time.Duration
	if r.maxReached {
		interval = r.maxInterval
	} else {
		multiplier := math.Pow(r.base, float64(r.attempted-1))
		interval = time.Duration(float64(r.minInterval) * multiplier)
		if interval > r.maxInterval || interval <= 0 {
			r.maxReached = true
			interval = r.maxInterval
		}
	}

	return wait(ctx, interval, r.jitter)
}

func (r *ExponentialPolicy) Derive() Policy {
	return Exponential(r.attempts, r.minInterval, r.maxInterval).
		WithBase(r.base).
		WithJitter(r.jitter)
}
