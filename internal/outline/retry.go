package outline

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy controls how rate-limited (HTTP 429) calls are retried. The
// wait between attempts comes from the response's Retry-After header, falling
// back to DefaultWait when the header is absent. Timer is the wait-time
// source; tests inject a fake timer so no real sleeping happens.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// DefaultWait is used when a 429 response carries no Retry-After header.
	DefaultWait time.Duration
	// Timer drives the waits between attempts. Nil means real time.
	Timer backoff.Timer
}

// DefaultRetryPolicy matches the Outline API's documented rate limiting:
// 3 attempts, 60 second default wait.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		DefaultWait: 60 * time.Second,
	}
}

// retryAfterBackOff yields the wait advertised by the last 429 response, or
// the default when the server did not say.
type retryAfterBackOff struct {
	defaultWait time.Duration
	next        time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	if b.next > 0 {
		d := b.next
		b.next = 0
		return d
	}
	return b.defaultWait
}

func (b *retryAfterBackOff) Reset() {
	b.next = 0
}
