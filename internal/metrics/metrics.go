package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const ns = "ankapi"

const (
	ErrorKindValidation    = "validation"
	ErrorKindConfiguration = "configuration"
	ErrorKindStorage       = "storage"

	AuthFailureMissing = "missing"
	AuthFailureInvalid = "invalid"
	AuthFailureLimited = "rate_limited"
)

var (
	AccountsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: ns,
		Subsystem: "accounts",
		Name:      "created_total",
		Help:      "Total number of provisioned accounts",
	})
	ProfilesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: ns,
		Subsystem: "profiles",
		Name:      "created_total",
		Help:      "Total number of lazily created user profiles",
	})
	ProvisionErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Subsystem: "accounts",
		Name:      "errors_total",
		Help:      "Account provisioning failures by kind",
	}, []string{"kind"})
	ProvisionDurations = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: ns,
		Subsystem: "accounts",
		Name:      "provision_seconds",
		Help:      "Account provisioning request durations",
	})
	AuthFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Subsystem: "auth",
		Name:      "failures_total",
		Help:      "Rejected authentication attempts by reason",
	}, []string{"reason"})
)

// RegisterMetrics adds all service collectors to registry, or to the default one when registry is nil.
func RegisterMetrics(registry prometheus.Registerer) {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	registry.MustRegister(
		AccountsCreated, ProfilesCreated, ProvisionErrors, ProvisionDurations, AuthFailures,
	)
}
