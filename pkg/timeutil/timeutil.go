package timeutil

import (
	"math"
	"math/rand"
	"time"
)

// DurationPtr is a helper function to create a pointer to a time.Duration
func DurationPtr(d time.Duration) *time.Duration {
	return &d
}

// MaxDuration returns the largest duration in the slice, or zero for an
// empty slice.
func MaxDuration(durations []time.Duration) time.Duration {
	var max time.Duration
	for _, d := range durations {
		if d > max {
			max = d
		}
	}
	return max
}

// ExponentialBackoffDelay computes the waiting time before retry attempt
// number `attempt` (1-based). The delay grows geometrically from the
// initial duration, is capped at the configured maximum, and a random
// jitter in [0, jitter) is added on top of the capped value.
func ExponentialBackoffDelay(
	attempt int,
	jitter time.Duration,
	rng rand.Rand,
	param BackoffParam,
) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := float64(param.InitialDuration()) * math.Pow(param.Multiplier(), float64(attempt-1))

	if delay > float64(param.MaxDuration()) {
		delay = float64(param.MaxDuration())
	}

	total := time.Duration(delay)
	if jitter > 0 {
		total += time.Duration(rng.Int63n(int64(jitter)))
	}

	return total
}
