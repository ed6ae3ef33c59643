package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	nativeCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "refprop_native_calls_total",
		Help: "Native entry point invocations",
	}, []string{"entry"})

	nativeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "refprop_native_errors_total",
		Help: "Native entry point invocations that returned a nonzero code",
	}, []string{"entry"})

	callSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "refprop_native_call_seconds",
		Help:    "Duration of native entry point invocations",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
	}, []string{"entry"})
)
