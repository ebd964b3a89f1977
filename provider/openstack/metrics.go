// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package openstack

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "juju_clientconfig_openstack"

const (
	resultSuccess = "success"
	resultFailure = "failure"
	resultTimeout = "timeout"
)

// SessionCollector is a prometheus.Collector that collects metrics about
// goose session authentication.
type SessionCollector struct {
	authentications    *prometheus.CounterVec
	authenticationTime prometheus.Histogram
}

// NewSessionCollector returns a new SessionCollector.
func NewSessionCollector() *SessionCollector {
	return &SessionCollector{
		authentications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "authentications_total",
				Help:      "The number of session authentication attempts by result.",
			}, []string{"result"},
		),
		authenticationTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "authentication_duration_seconds",
				Help:      "The time taken to authenticate a session.",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *SessionCollector) Describe(ch chan<- *prometheus.Desc) {
	c.authentications.Describe(ch)
	c.authenticationTime.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *SessionCollector) Collect(ch chan<- prometheus.Metric) {
	c.authentications.Collect(ch)
	c.authenticationTime.Collect(ch)
}

// observe records one authentication attempt. A nil collector records
// nothing.
func (c *SessionCollector) observe(result string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.authentications.WithLabelValues(result).Inc()
	c.authenticationTime.Observe(elapsed.Seconds())
}
