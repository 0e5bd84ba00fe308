// Package httputil provides the request-shaping primitives shared by every
// upstream client in partscout.
//
// # Overview
//
// Catalog and marketplace sites throttle aggressive clients, so every
// outbound request passes through three mechanisms:
//
//   - [Pacer]: randomized minimum spacing between consecutive requests
//   - [Retry]: bounded retry with a linear back-off for 429 responses and a
//     fixed wait for transport failures
//   - [UserAgents]: a rotating browser identity, picked per request
//
// # Retry
//
// [Retry] runs fn until it succeeds, returns a non-retryable error, or the
// [Policy] attempt budget is spent. Errors are classified by wrapper type:
//
//   - [RateLimitError]: HTTP 429; the wait after the n-th attempt is
//     BackoffStep * n
//   - [RetryableError]: transport failure; the wait is TransportWait
//   - anything else: returned immediately
//
// Usage:
//
//	err := httputil.Retry(ctx, httputil.DefaultPolicy(), func(attempt int) error {
//	    return doRequest()
//	})
//
// # Pacing
//
// A [Pacer] books every send on a golang.org/x/time/rate limiter. A request
// arriving sooner than the minimum delay after the previous send is held
// until a random point between min and max after it:
//
//	p := httputil.NewPacer(2*time.Second, 5*time.Second)
//	if err := p.Wait(ctx); err != nil {
//	    return err
//	}
//
// # Defaults
//
//   - Attempts: 3
//   - Rate-limit back-off step: 30 seconds
//   - Transport wait: 5 seconds
//   - Pacing window: 2 to 5 seconds
package httputil
