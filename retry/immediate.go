package retry

import (
	"context"
)

// ImmediatePolicy retries without waiting.
type ImmediatePolicy struct {
	attempted int
	attempts  int
}

var _ Policy = (*ImmediatePolicy)(nil)

// Immediate returns a policy allowing the given number of attempts in total.
func Immediate(attempts int) *ImmediatePolicy {
	validateAttempts(attempts)
	return &ImmediatePolicy{
		attempts: attempts,
	}
}

func (r *ImmediatePolicy) Attempt(ctx context.Context) bool {
	if r.attempted >= r.attempts || ctx.Err() != nil {
		return false
	}
	r.attempted += 1
	return true
}

func (r *ImmediatePolicy) Derive() Policy {
	return Immediate(r.attempts)
}
