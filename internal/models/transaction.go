package models

import "time"

type TransactionStatus string

const (
	TxStatusPending TransactionStatus = "PENDING"
	TxStatusSuccess TransactionStatus = "SUCCESS"
	TxStatusFailed  TransactionStatus = "FAILED"
	TxStatusBlocked TransactionStatus = "BLOCKED"
)

// Transaction is the append-only audit record of one authorization attempt.
// Only SUCCESS and BLOCKED outcomes produce one; it is never mutated after
// creation.
type Transaction struct {
	ID               string            `json:"id"`
	TransactionCode  string            `json:"transaction_code"`
	FromAccountID    string            `json:"from_account_id"`
	ToAccountNumber  string            `json:"to_account_number"`
	ToAccountName    string            `json:"to_account_name"`
	Amount           int64             `json:"amount"`
	Description      string            `json:"description"`
	Status           TransactionStatus `json:"status"`
	FaceVerified     bool              `json:"face_verified"`
	DeepfakeDetected bool              `json:"deepfake_detected"`
	ErrorMessage     string            `json:"error_message,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty"`
}

// TransferResponse is the success payload of POST /api/transfer.
type TransferResponse struct {
	Transaction *Transaction `json:"transaction"`
	Message     string       `json:"message"`
}
