package gate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	waitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "refprop_gate_wait_seconds",
		Help:    "Time spent waiting to acquire the native call gate",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
	})

	holdSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "refprop_gate_hold_seconds",
		Help:    "Time the native call gate was held per acquisition",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	})

	poisonedGates = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "refprop_gate_poisoned",
		Help: "Number of gates currently poisoned",
	})
)
