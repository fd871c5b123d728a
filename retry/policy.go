// This package contains the [Policy] interface and several implementations.
package retry

import (
	"context"
)

// Policy decides whether a failed source fetch is tried again and how long to wait before it.
//
// Implementations are not considered thread-safe. Use [Policy.Derive] to get an instance for
// each sequence of attempts.
type Policy interface {
	// Attempt checks if another attempt should be made.
	//
	// The first call always returns true unless the context is done. Later calls block for the
	// policy's interval and return false once the attempts are exhausted or the context is done.
	Attempt(ctx context.Context) bool
	// Derive returns a new Policy with the same settings and no attempts made.
	Derive() Policy
}
