// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/natours/identity/internal/auth"
)

// Metrics contains the application's Prometheus collectors.
type Metrics struct {
	AuthEvents   *prometheus.CounterVec
	HTTPRequests *prometheus.CounterVec
	RateLimited  prometheus.Counter
}

var _ auth.EventRecorder = (*Metrics)(nil)

// NewMetrics creates and registers the application metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AuthEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "natours_auth_events_total",
				Help: "Total number of credential operations by event and outcome",
			},
			[]string{"event", "outcome"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "natours_http_requests_total",
				Help: "Total number of HTTP requests by method and status code",
			},
			[]string{"method", "status"},
		),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "natours_rate_limited_total",
			Help: "Total number of API requests rejected by the rate limiter",
		}),
	}

	reg.MustRegister(m.AuthEvents, m.HTTPRequests, m.RateLimited)
	return m
}

// AuthEvent records one credential operation.
func (m *Metrics) AuthEvent(event, outcome string) {
	m.AuthEvents.WithLabelValues(event, outcome).Inc()
}

// HTTPRequest records one served request.
func (m *Metrics) HTTPRequest(method string, status int) {
	m.HTTPRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// RateLimitedRequest records one rejected request.
func (m *Metrics) RateLimitedRequest() {
	m.RateLimited.Inc()
}
