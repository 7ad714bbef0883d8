// Package metrics exposes Prometheus counters for authentication events.
// The counters are process-wide and registered on the default registry,
// served by the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Login attempts by result.",
	}, []string{"result"})

	Refreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_refreshes_total",
		Help: "Refresh-token exchanges by result.",
	}, []string{"result"})

	ReuseDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_token_reuse_detected_total",
		Help: "Replays of already-consumed refresh tokens (theft signals).",
	})
)
