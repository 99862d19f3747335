// Package detection implements the fraud signal stage of the authorization
// pipeline. The decision is a property of the biometric sample alone: Assess
// never sees the transfer amount or destination.
package detection

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/deepfakebank/transfer-authorization/internal/models"
)

// Default decision parameters, on a 0-100 confidence scale.
const (
	DefaultThreshold    = 50.0
	DefaultPositiveRate = 0.20
)

// Assessment is the detector's verdict on one capture. IsFraud is always
// Score > threshold; the two are never computed independently.
type Assessment struct {
	Score   float64 `json:"score"`
	IsFraud bool    `json:"is_fraud"`
}

// Detector scores a biometric sample for impersonation. Implementations must
// honor ctx deadlines and keep the decision independent of any transfer
// parameters.
type Detector interface {
	Assess(ctx context.Context, artifact *models.CaptureArtifact) (Assessment, error)
}

// SimulatedDetector stands in for a real classifier. It flags roughly
// PositiveRate of samples, with positive scores drawn above the threshold
// (50-100) and negative scores well below it (0-30), matching the confidence
// ranges a real model reports on obvious cases.
type SimulatedDetector struct {
	Threshold    float64
	PositiveRate float64
	Delay        time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedDetector builds a detector with a seedable random source so
// tests can pin the outcome.
func NewSimulatedDetector(seed int64, threshold, positiveRate float64, delay time.Duration) *SimulatedDetector {
	return &SimulatedDetector{
		Threshold:    threshold,
		PositiveRate: positiveRate,
		Delay:        delay,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

func (d *SimulatedDetector) Assess(ctx context.Context, artifact *models.CaptureArtifact) (Assessment, error) {
	if d.Delay > 0 {
		timer := time.NewTimer(d.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Assessment{}, ctx.Err()
		case <-timer.C:
		}
	}

	d.mu.Lock()
	positive := d.rng.Float64() < d.PositiveRate
	draw := d.rng.Float64()
	d.mu.Unlock()

	var score float64
	if positive {
		score = d.Threshold + draw*(100-d.Threshold)
	} else {
		score = draw * 30
	}

	return Assessment{Score: score, IsFraud: score > d.Threshold}, nil
}
