package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var evaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "codewarden_evaluations_total",
	Help: "Number of moderation evaluations by resulting action",
}, []string{"action"})

var verdictConfidence = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "codewarden_verdict_confidence",
	Help:    "Confidence of the winning verdict per evaluation",
	Buckets: prometheus.LinearBuckets(0, 0.1, 11),
})

var ocrUnavailableTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "codewarden_ocr_unavailable_total",
	Help: "Number of attachment scans skipped because the extractor was down",
})

var gateBlockedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "codewarden_gate_blocked_total",
	Help: "Number of evaluations skipped by the operational gate",
})
