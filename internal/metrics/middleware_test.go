package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasure(t *testing.T) {
	hist := prometheus.NewHistogram(prometheus.HistogramOpts{Name: "test_duration_seconds"})
	var duration float64

	h := Measure(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, AddObserver(r, hist))
		duration = GetDuration(r)
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodPost, "/v1/account", nil)
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.GreaterOrEqual(t, duration, 0.0)
	assert.Equal(t, 1, testutil.CollectAndCount(hist))
}

func TestAddObserver_NoMiddleware(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/v1/account", nil)
	hist := prometheus.NewHistogram(prometheus.HistogramOpts{Name: "test_duration_seconds"})
	assert.Error(t, AddObserver(r, hist))
	assert.Equal(t, -1.0, GetDuration(r))
}

func TestRegisterMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	RegisterMetrics(registry)

	AccountsCreated.Inc()
	ProvisionErrors.WithLabelValues(ErrorKindStorage).Inc()

	families, err := registry.Gather()
	require.NoError(t, err)
	names := []string{}
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "ankapi_accounts_created_total")
	assert.Contains(t, names, "ankapi_accounts_errors_total")
}

func TestMeasure_ObservesOncePerRequest(t *testing.T) {
	var observed []float64
	o := prometheus.ObserverFunc(func(v float64) { observed = append(observed, v) })
	h := Measure(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, AddObserver(r, o))
		panic("handler failed")
	}))

	r := httptest.NewRequest(http.MethodPost, "/v1/account", nil)
	assert.Panics(t, func() { h.ServeHTTP(httptest.NewRecorder(), r) })
	require.Len(t, observed, 1)
	assert.GreaterOrEqual(t, observed[0], 0.0)
}
