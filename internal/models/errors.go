package models

import (
	"errors"
	"fmt"
)

// Validation errors carry no side effects and are safe to retry after
// correction. ErrCaptureUnavailable and ErrSettlement are also side-effect
// free: the account is never left debited when they surface.
var (
	ErrInvalidDestination = errors.New("destination account number must be at least 10 digits")
	ErrAmountTooLow       = errors.New("amount is below the minimum transfer amount")
	ErrInsufficientFunds  = errors.New("insufficient balance")
	ErrInvalidDescription = errors.New("description must be non-empty and at most 200 characters")

	ErrCaptureUnavailable = errors.New("biometric capture unavailable")
	ErrSettlement         = errors.New("settlement failed")

	ErrRecordNotFound = errors.New("record not found")
)

// DeepfakeError is the hard failure raised when the fraud stage blocks a
// transfer. The BLOCKED transaction and CRITICAL alert already exist by the
// time it surfaces.
type DeepfakeError struct {
	TransactionCode string
	Score           float64
}

func (e *DeepfakeError) Error() string {
	return fmt.Sprintf("deepfake detected (confidence %.1f%%), transaction %s blocked", e.Score, e.TransactionCode)
}
