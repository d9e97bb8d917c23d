// Package ankapi assembles the account provisioning service: routing, authentication,
// storage and operational endpoints.
package ankapi

import (
	"context"
	"net/http"
	"time"

	"github.com/ankproject/ank-api/app/accounts"
	"github.com/ankproject/ank-api/app/auth"
	"github.com/ankproject/ank-api/internal/errors"
	"github.com/ankproject/ank-api/internal/ip"
	"github.com/ankproject/ank-api/internal/metrics"
	"github.com/ankproject/ank-api/internal/monitor"
	"github.com/ankproject/ank-api/pkg/iprate"
	"github.com/ankproject/ank-api/pkg/logging"
	"github.com/ankproject/ank-api/pkg/objstore"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

const AccountPath = "/v1/account"

type LauncherOption func(*Launcher)

type Launcher struct {
	authenticator   auth.Authenticator
	authRateLimit   int
	bucket          string
	corsDomains     []string
	httpAddress     string
	storage         objstore.Storage
	logger          logging.KVLogger
	router          chi.Router
	httpServer      *http.Server
	limiter         *iprate.Limiter
	readyCancel     context.CancelFunc
	shutdownTimeout time.Duration
}

func NewLauncher(options ...LauncherOption) *Launcher {
	launcher := &Launcher{
		logger:          logging.NoopKVLogger{},
		httpAddress:     "0.0.0.0:8080",
		corsDomains:     []string{"*"},
		authRateLimit:   10,
		shutdownTimeout: 10 * time.Second,
	}

	for _, opt := range options {
		opt(launcher)
	}

	return launcher
}

func WithLogger(logger logging.KVLogger) LauncherOption {
	return func(l *Launcher) {
		l.logger = logger
	}
}

func WithStorage(storage objstore.Storage) LauncherOption {
	return func(l *Launcher) {
		l.storage = storage
	}
}

func WithBucket(bucket string) LauncherOption {
	return func(l *Launcher) {
		l.bucket = bucket
	}
}

func WithAuthenticator(authenticator auth.Authenticator) LauncherOption {
	return func(l *Launcher) {
		l.authenticator = authenticator
	}
}

func WithHTTPAddress(address string) LauncherOption {
	return func(l *Launcher) {
		l.httpAddress = address
	}
}

func WithCORSDomains(domains []string) LauncherOption {
	return func(l *Launcher) {
		l.corsDomains = domains
	}
}

// WithAuthRateLimit sets how many failed authentication attempts per minute a single
// address is allowed. Zero disables the limit.
func WithAuthRateLimit(perMinute int) LauncherOption {
	return func(l *Launcher) {
		l.authRateLimit = perMinute
	}
}

func WithShutdownTimeout(timeout time.Duration) LauncherOption {
	return func(l *Launcher) {
		l.shutdownTimeout = timeout
	}
}

func (l *Launcher) Build() (chi.Router, error) {
	if l.storage == nil {
		return nil, errors.Err("object storage is not configured")
	}
	if l.authenticator == nil {
		return nil, errors.Err("authenticator is not configured")
	}
	if l.bucket == "" {
		l.logger.Warn("bucket is not set, account requests will fail until it is configured")
	}

	readyCtx, readyCancel := context.WithCancel(context.Background())
	l.readyCancel = readyCancel

	if l.authRateLimit > 0 {
		l.limiter = iprate.NewLimiter(rate.Every(time.Minute/time.Duration(l.authRateLimit)), l.authRateLimit)
	}

	l.logger.Info("building accounts handler", "bucket", l.bucket)
	handler := accounts.NewHandler(
		accounts.NewProvisioner(
			accounts.WithStorage(l.storage),
			accounts.WithBucket(l.bucket),
		),
		l.logger,
	)

	requestLogger := &RequestLogger{logger: l.logger}

	router := chi.NewRouter()
	router.Use(ip.Middleware)
	router.Use(requestLogger.Middleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   l.corsDomains,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(monitor.ErrorLoggingMiddleware)

	registry := prometheus.NewRegistry()
	metrics.RegisterMetrics(registry)
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promHandler := promhttp.InstrumentMetricHandler(
		registry, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)

	// Public endpoints
	router.Group(func(r chi.Router) {
		r.Use(metrics.Measure)
		r.Use(auth.Middleware(l.authenticator, l.limiter, l.logger))
		r.Post(AccountPath, handler.CreateAccount)
	})

	// Internal endpoints
	router.Get("/livez", func(w http.ResponseWriter, r *http.Request) {
		if readyCtx.Err() != nil {
			http.Error(w, "account service is shutting down", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("OK"))
	})
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	router.Get("/metrics", promHandler.ServeHTTP)

	l.router = router
	l.httpServer = &http.Server{
		Addr:              l.httpAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	l.logger.Info("accounts handler built")
	return router, nil
}

// Launch serves until the server is shut down. It returns an error
// only when the server fails, for example when the address is taken.
func (l *Launcher) Launch() error {
	l.logger.Info("launching http server", "address", l.httpAddress)
	err := l.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		l.logger.Error("http server returned error", "err", err)
		return err
	}
	l.logger.Info("http server stopped")
	return nil
}

func (l *Launcher) StartShutdown() {
	l.logger.Info("shutting down liveness handler")
	l.readyCancel()
}

func (l *Launcher) CompleteShutdown() {
	l.logger.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), l.shutdownTimeout)
	defer cancel()
	if err := l.httpServer.Shutdown(ctx); err != nil {
		l.logger.Info("error encountered while stopping http server", "err", err)
	}
	if l.limiter != nil {
		l.limiter.Stop()
	}
}
