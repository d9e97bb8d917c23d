package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/ankproject/ank-api/internal/errors"

	"github.com/prometheus/client_golang/prometheus"
)

type key int

const timerContextKey key = iota

// requestTimer measures one request and reports its duration to every observer added along the way.
type requestTimer struct {
	mu        sync.Mutex
	started   time.Time
	duration  float64
	stopped   bool
	observers []prometheus.Observer
}

func startTimer() *requestTimer {
	return &requestTimer{started: time.Now()}
}

func (t *requestTimer) addObserver(o prometheus.Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, o)
}

func (t *requestTimer) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	t.duration = time.Since(t.started).Seconds()
	for _, o := range t.observers {
		o.Observe(t.duration)
	}
}

func (t *requestTimer) elapsed() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return t.duration
	}
	return time.Since(t.started).Seconds()
}

// Measure middleware starts a timer whenever a request is performed.
// It should be added as first in the chain of middlewares.
// Note that it doesn't catch any metrics by itself,
// HTTP handlers are expected to add their own by calling AddObserver.
func Measure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := startTimer()
		defer t.stop()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), timerContextKey, t)))
	})
}

func timerFromRequest(r *http.Request) (*requestTimer, bool) {
	t, ok := r.Context().Value(timerContextKey).(*requestTimer)
	return t, ok
}

// AddObserver adds Prometheus metric to a chain of observers for a given HTTP request.
func AddObserver(r *http.Request, o prometheus.Observer) error {
	t, ok := timerFromRequest(r)
	if !ok {
		return errors.Err("metrics.Measure middleware is required")
	}
	t.addObserver(o)
	return nil
}

// GetDuration returns current duration of the request in seconds.
// Returns a negative value when Measure middleware is not present.
func GetDuration(r *http.Request) float64 {
	t, ok := timerFromRequest(r)
	if !ok {
		return -1
	}
	return t.elapsed()
}
