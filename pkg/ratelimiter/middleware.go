package ratelimiter

import (
	"hash/fnv"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vidshop/storefront/handler"
	"github.com/vidshop/storefront/pkg/clientip"
	"github.com/vidshop/storefront/pkg/logger"
)

const maxKeyLength = 64

// ErrTooManyRequests is rendered when a bucket is empty.
var ErrTooManyRequests = handler.NewHTTPError(http.StatusTooManyRequests, "too_many_requests").
	WithMessage("too many requests, try again later")

// KeyFunc names the bucket of a request. An empty key skips limiting.
type KeyFunc func(r *http.Request) string

// ByIP keys buckets by scope and client address. Long keys are hashed.
func ByIP(scope string) KeyFunc {
	return func(r *http.Request) string {
		ip := clientip.FromRequest(r)
		if ip == "" {
			return ""
		}
		key := scope + ":" + ip
		if len(key) <= maxKeyLength {
			return key
		}
		h := fnv.New64a()
		_, _ = h.Write([]byte(key))
		return scope + ":" + strconv.FormatUint(h.Sum64(), 36)
	}
}

// Middleware refuses requests once the bucket of key(r) is empty. Store
// failures are logged and the request is let through.
func Middleware(b *Bucket, key KeyFunc, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With(logger.Component("ratelimiter"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := b.Allow(r.Context(), k)
			if err != nil {
				log.WarnContext(r.Context(), "rate limit check failed", logger.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, res.Remaining)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed() {
				w.Header().Set("Retry-After", strconv.Itoa(max(1, int(res.RetryAfter().Seconds()+0.5))))
				log.InfoContext(r.Context(), "request throttled", slog.String("key", k))
				if err := handler.JSONError(ErrTooManyRequests).Render(w, r); err != nil {
					log.ErrorContext(r.Context(), "failed to render throttle response", logger.Error(err))
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
