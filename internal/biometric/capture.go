// Package biometric covers the capture side of the authorization pipeline:
// obtaining a facial sample and persisting uploaded evidence images. Capture
// success only means the device produced a usable sample; whether the sample
// is fraudulent is the detection stage's concern.
package biometric

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/deepfakebank/transfer-authorization/internal/models"
)

// CaptureProvider produces one biometric sample per authorization attempt.
// Capture may block on hardware I/O; cancellation and deadline expiry surface
// as models.ErrCaptureUnavailable.
type CaptureProvider interface {
	Capture(ctx context.Context) (*models.CaptureArtifact, error)
}

// StubProvider simulates a camera: a fixed delay, then a canned artifact.
// A production provider would run liveness checks before returning.
type StubProvider struct {
	Delay time.Duration
}

func (p *StubProvider) Capture(ctx context.Context) (*models.CaptureArtifact, error) {
	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, models.ErrCaptureUnavailable
		case <-timer.C:
		}
	}
	return &models.CaptureArtifact{
		ID:         uuid.New().String(),
		Ref:        "stub://verified",
		CapturedAt: time.Now(),
	}, nil
}

// StaticProvider wraps an already-captured sample, referenced by an upload
// path, as the pipeline's capture stage. An empty ref means the client never
// produced a sample.
type StaticProvider struct {
	Ref string
}

func (p *StaticProvider) Capture(ctx context.Context) (*models.CaptureArtifact, error) {
	if p.Ref == "" {
		return nil, models.ErrCaptureUnavailable
	}
	return &models.CaptureArtifact{
		ID:         uuid.New().String(),
		Ref:        p.Ref,
		CapturedAt: time.Now(),
	}, nil
}
