package api

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/streamlist/streamlist-data/internal/api/respond"
)

// TimingMiddleware records handler duration in an X-Process-Time header.
func TimingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := &timingWriter{ResponseWriter: w, start: time.Now()}
		next.ServeHTTP(ww, r)
	})
}

type timingWriter struct {
	http.ResponseWriter
	start       time.Time
	wroteHeader bool
}

func (w *timingWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.Header().Set("X-Process-Time", fmt.Sprintf("%.4f", time.Since(w.start).Seconds()))
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *timingWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// RateLimitMiddleware applies a global token-bucket limit across all
// requests: requests per window, with bursts up to the full window budget.
func RateLimitMiddleware(requests int, window time.Duration) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(float64(requests)/window.Seconds()), requests)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				respond.WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
