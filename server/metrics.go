package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	conversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clip2md_conversions_total",
		Help: "Conversions handled by the HTTP endpoint, by outcome.",
	}, []string{"outcome"})

	conversionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "clip2md_conversion_duration_seconds",
		Help:    "Time spent converting HTML to Markdown.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	})

	inputBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "clip2md_input_bytes",
		Help:    "Size of the submitted HTML.",
		Buckets: prometheus.ExponentialBuckets(256, 8, 8),
	})
)
