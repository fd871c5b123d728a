package retry_test

import (
	"testing"
	"testing/synctest"
	"time"
)

// tolerance absorbs rounding of the measured waits.
const tolerance = 10 * time.Microsecond

// inBubble runs fn as a parallel subtest inside a synctest bubble, so waits take no real time.
func inBubble(t *testing.T, name string, fn func(t *testing.T)) {
	t.Run(name, func(t *testing.T) {
		t.Helper()
		t.Parallel()
		synctest.Test(t, fn)
	})
}

// expectWait returns a function that runs attempt and fails the test unless it blocked for
// wait, give or take the jitter.
func expectWait(t *testing.T, jitter float64) func(wait time.Duration, attempt func()) {
	t.Helper()
	return func(wait time.Duration, attempt func()) {
		spread := time.Duration(float64(wait) * jitter)
		lo := (wait - spread).Truncate(tolerance)
		hi := (wait + spread + tolerance).Truncate(tolerance)

		start := time.Now()
		attempt()
		took := time.Since(start).Truncate(tolerance)

		if took < lo || took > hi {
			t.Fatalf("attempt waited %s, want between %s and %s", took, lo, hi)
		}
	}
}
