package transport

import (
	"math/rand/v2"
	"net/http"
	"time"
)

// jitteredBackoff implements retryablehttp.Backoff per spec §4.2: the base
// delay doubles with each attempt up to max, then the actual delay is
// drawn uniformly from [0.75*base, 1.25*base] so concurrent callers
// retrying the same failure don't all wake up in lockstep.
func jitteredBackoff(minDelay, maxDelay time.Duration, attemptNum int, _ *http.Response) time.Duration {
	if minDelay <= 0 {
		minDelay = time.Millisecond
	}

	base := minDelay * time.Duration(1<<uint(min(attemptNum, 31)))
	if base <= 0 || base > maxDelay {
		base = maxDelay
	}

	jitterSpan := base / 2 // full span of [-base/4, +base/4]
	if jitterSpan <= 0 {
		return base
	}

	offset := time.Duration(rand.Int64N(int64(jitterSpan)+1)) - jitterSpan/2

	delay := base + offset
	if delay < 0 {
		delay = 0
	}

	return delay
}
