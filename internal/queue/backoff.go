package queue

import "time"

// Backoff returns the exponential delay before the given retry:
// base * 2^retry, capped at max. Negative retries get the base delay.
func Backoff(base, max time.Duration, retry int) time.Duration {
	if retry < 0 {
		return base
	}
	// 2^30 already exceeds any sensible cap.
	if retry > 30 {
		return max
	}
	d := base * time.Duration(1<<retry)
	if d > max {
		return max
	}
	return d
}
