// Package metrics exposes Prometheus instrumentation for the session cycle.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aatumaykin/sessiond/internal/logger"
)

// Metrics holds the scheduler's Prometheus collectors.
type Metrics struct {
	registry           prometheus.Registerer
	sessionsTotal      *prometheus.CounterVec
	sessionDuration    *prometheus.HistogramVec
	cyclesCompleted    prometheus.Counter
	collaboratorErrors *prometheus.CounterVec
}

// Init registers the scheduler collectors on the given registerer.
// A nil registerer falls back to the default one.
func Init(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		registry: reg,
		sessionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_total",
				Help:      "Total number of session invocations by outcome",
			},
			[]string{"outcome"},
		),
		sessionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "session_duration_seconds",
				Help:      "Duration of session invocations",
				Buckets:   []float64{1, 10, 60, 300, 900, 1800, 3600, 7200},
			},
			[]string{"outcome"},
		),
		cyclesCompleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cycles_completed_total",
				Help:      "Total number of completed session cycles",
			},
		),
		collaboratorErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "collaborator_errors_total",
				Help:      "Total number of absorbed collaborator errors",
			},
			[]string{"source"},
		),
	}

	reg.MustRegister(
		m.sessionsTotal,
		m.sessionDuration,
		m.cyclesCompleted,
		m.collaboratorErrors,
	)

	return m
}

// ObserveSession records one finished session invocation.
func (m *Metrics) ObserveSession(outcome string, d time.Duration) {
	m.sessionsTotal.WithLabelValues(outcome).Inc()
	m.sessionDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// IncCycleCompleted records one completed cycle.
func (m *Metrics) IncCycleCompleted() {
	m.cyclesCompleted.Inc()
}

// IncCollaboratorError records one absorbed collaborator error.
func (m *Metrics) IncCollaboratorError(source string) {
	m.collaboratorErrors.WithLabelValues(source).Inc()
}

// Serve exposes /metrics on addr until the context is cancelled.
// Listener errors are logged, never fatal: metrics are an ambient concern.
func Serve(ctx context.Context, addr string, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info("metrics listener started", logger.Field{Key: "addr", Value: addr})
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("metrics listener failed", err)
	}
}
