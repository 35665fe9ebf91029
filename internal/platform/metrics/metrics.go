// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics holds the Prometheus collectors exported on GET /metrics.

Collectors are package-level so services can record events without carrying a
registry around. [Register] attaches them to the registry served by [Handler].
*/
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "yamdb"

var (
	// HTTPLatency observes request latency per chi route pattern.
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Signups counts signup calls by outcome (created|existing).
	Signups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signups_total",
			Help:      "Signup requests that issued a confirmation code.",
		},
		[]string{"outcome"},
	)

	// TokensIssued counts access tokens handed out by the token endpoint.
	TokensIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_issued_total",
			Help:      "Access tokens issued.",
		},
	)

	// ReviewsCreated counts stored reviews.
	ReviewsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_created_total",
			Help:      "Reviews created.",
		},
	)

	// MailDeliveries counts outbound mail by result (sent|failed).
	MailDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mail_deliveries_total",
			Help:      "Outbound mail delivery attempts.",
		},
		[]string{"result"},
	)
)

// Register adds every collector of this package plus the Go runtime and
// process collectors to registerer.
func Register(registerer prometheus.Registerer) error {
	for _, collector := range []prometheus.Collector{
		HTTPLatency,
		Signups,
		TokensIssued,
		ReviewsCreated,
		MailDeliveries,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registerer.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// Handler serves the metrics gathered by gatherer in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
