package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/merchkit/pricing-api/internal/common"
)

// KeyFunc derives the limit bucket for a request. When nil, the
// middleware buckets by client IP.
type KeyFunc func(*http.Request) string

// Limit returns middleware that admits requests through the given
// sliding window. Redis failures fail open: the request proceeds and
// onError (if set) observes the failure.
func Limit(window SlidingWindow, key KeyFunc, onError func(error)) func(http.Handler) http.Handler {
	if key == nil {
		key = common.ClientIP
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := window.Check(r.Context(), key(r))
			if err != nil {
				if onError != nil {
					onError(err)
				}
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(window.Max))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				retryAfter := int(time.Until(res.ResetAt).Seconds())
				if retryAfter < 0 {
					retryAfter = 0
				}
				h.Set("Retry-After", strconv.Itoa(retryAfter))
				common.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
