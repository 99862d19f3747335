package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AuthorizationOutcomes counts terminal pipeline states per outcome
// (completed, blocked, failed, rejected).
var AuthorizationOutcomes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "transfer_authorizations_total",
		Help: "Terminal outcomes of transfer authorization attempts.",
	},
	[]string{"outcome"},
)

// DeepfakeScores tracks the confidence scores reported by the fraud stage.
var DeepfakeScores = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "deepfake_confidence_score",
		Help:    "Confidence scores from the deepfake detection stage.",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	},
)

func init() {
	prometheus.MustRegister(AuthorizationOutcomes, DeepfakeScores)
}
