package models

import "time"

// AuthorizationState tracks where a transfer authorization attempt is in its
// lifecycle. Completed, Blocked and Failed are terminal.
type AuthorizationState string

const (
	StateDrafting          AuthorizationState = "DRAFTING"
	StateAwaitingBiometric AuthorizationState = "AWAITING_BIOMETRIC"
	StateVerifying         AuthorizationState = "VERIFYING"
	StateSettling          AuthorizationState = "SETTLING"
	StateCompleted         AuthorizationState = "COMPLETED"
	StateBlocked           AuthorizationState = "BLOCKED"
	StateFailed            AuthorizationState = "FAILED"
)

// TransferRequest is the transient input to one authorization attempt. It is
// never persisted as-is; a Transaction is derived from it.
type TransferRequest struct {
	ToAccountNumber string   `json:"to_account_number"`
	Amount          int64    `json:"amount"`
	Description     string   `json:"description"`
	CaptureRef      string   `json:"capture_ref,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
}

// CaptureArtifact is an opaque handle to one biometric sample. It is scoped to
// a single authorization attempt; raw biometric data never reaches the
// transaction record.
type CaptureArtifact struct {
	ID         string
	Ref        string
	CapturedAt time.Time
}
