package models

import "time"

type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "LOW"
	SeverityMedium   AlertSeverity = "MEDIUM"
	SeverityHigh     AlertSeverity = "HIGH"
	SeverityCritical AlertSeverity = "CRITICAL"
)

const AlertTypeDeepfakeDetected = "DEEPFAKE_DETECTED"

// Alert is created only when the fraud stage blocks a transfer. IsRead is the
// one mutable field; everything else is fixed at creation.
type Alert struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	TransactionID   string        `json:"transaction_id"`
	AlertType       string        `json:"alert_type"`
	Severity        AlertSeverity `json:"severity"`
	Title           string        `json:"title"`
	Message         string        `json:"message"`
	Latitude        *float64      `json:"latitude,omitempty"`
	Longitude       *float64      `json:"longitude,omitempty"`
	LocationAddress string        `json:"location_address,omitempty"`
	IsRead          bool          `json:"is_read"`
	CreatedAt       time.Time     `json:"created_at"`
}
