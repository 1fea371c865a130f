package sasl

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks Prometheus metrics for SASL negotiation.
//
// All metrics use the "saslgate_sasl_" prefix. Methods handle a nil receiver
// gracefully, so a nil *Metrics acts as a no-op (zero overhead when metrics
// are disabled).
type Metrics struct {
	// SessionCreations counts mechanism session creation attempts.
	// Labels: method=[TOKEN, KERBEROS, ...], result=[success, failure]
	SessionCreations *prometheus.CounterVec

	// AuthFailures counts negotiation failures by reason.
	// Labels: reason=[access_control, invalid_token, unsupported_callback,
	//                 secret_manager]
	AuthFailures *prometheus.CounterVec

	// CallbackRounds counts callback rounds handled by handler kind.
	// Labels: handler=[token, gssapi]
	CallbackRounds *prometheus.CounterVec
}

var (
	// metricsOnce ensures negotiation metrics are registered exactly once.
	metricsOnce sync.Once
	// metricsInstance holds the singleton metrics instance.
	metricsInstance *Metrics
)

// NewMetrics creates and registers SASL Prometheus metrics.
//
// If registerer is nil, prometheus.DefaultRegisterer is used. Idempotent:
// repeated calls return the instance registered on first use.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	metricsOnce.Do(func() {
		if registerer == nil {
			registerer = prometheus.DefaultRegisterer
		}

		m := &Metrics{
			SessionCreations: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "saslgate_sasl_session_creations_total",
					Help: "Total SASL mechanism session creation attempts by method and result",
				},
				[]string{"method", "result"},
			),
			AuthFailures: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "saslgate_sasl_auth_failures_total",
					Help: "Total SASL negotiation failures by reason",
				},
				[]string{"reason"},
			),
			CallbackRounds: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "saslgate_sasl_callback_rounds_total",
					Help: "Total credential callback rounds handled by handler kind",
				},
				[]string{"handler"},
			),
		}

		registerer.MustRegister(
			m.SessionCreations,
			m.AuthFailures,
			m.CallbackRounds,
		)

		metricsInstance = m
	})

	return metricsInstance
}

// RecordSessionCreation records a mechanism session creation attempt.
func (m *Metrics) RecordSessionCreation(method AuthMethod, success bool) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.SessionCreations.WithLabelValues(method.String(), result).Inc()
}

// RecordAuthFailure records a negotiation failure with a taxonomy reason.
func (m *Metrics) RecordAuthFailure(err error) {
	if m == nil || err == nil {
		return
	}
	m.AuthFailures.WithLabelValues(failureReason(err)).Inc()
}

// RecordCallbackRound records one handled callback round.
func (m *Metrics) RecordCallbackRound(handler string) {
	if m == nil {
		return
	}
	m.CallbackRounds.WithLabelValues(handler).Inc()
}

// failureReason maps the error taxonomy onto metric label values. Anything
// outside the package's typed errors is attributed to the secret manager,
// the only collaborator whose errors pass through unwrapped.
func failureReason(err error) string {
	var (
		accessErr   *AccessControlError
		tokenErr    *InvalidTokenError
		callbackErr *UnsupportedCallbackError
	)
	switch {
	case errors.As(err, &accessErr):
		return "access_control"
	case errors.As(err, &tokenErr):
		return "invalid_token"
	case errors.As(err, &callbackErr):
		return "unsupported_callback"
	default:
		return "secret_manager"
	}
}
