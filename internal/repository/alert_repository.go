package repository

import (
	"context"
	"database/sql"

	"github.com/deepfakebank/transfer-authorization/internal/models"
)

type AlertRepository struct {
	db *sql.DB
}

func NewAlertRepository(db *sql.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO alerts (id, user_id, transaction_id, alert_type, severity, title,
			message, latitude, longitude, location_address, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, alert.ID, alert.UserID, alert.TransactionID, alert.AlertType, alert.Severity,
		alert.Title, alert.Message, alert.Latitude, alert.Longitude,
		nullString(alert.LocationAddress), alert.IsRead, alert.CreatedAt)
	return err
}

func (r *AlertRepository) ListByUser(ctx context.Context, userID string) ([]*models.Alert, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, transaction_id, alert_type, severity, title, message,
			latitude, longitude, location_address, is_read, created_at
		FROM alerts WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Alert
	for rows.Next() {
		var a models.Alert
		var addr sql.NullString
		if err := rows.Scan(&a.ID, &a.UserID, &a.TransactionID, &a.AlertType, &a.Severity,
			&a.Title, &a.Message, &a.Latitude, &a.Longitude, &addr, &a.IsRead, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.LocationAddress = addr.String
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *AlertRepository) MarkRead(ctx context.Context, alertID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE alerts SET is_read = TRUE WHERE id = $1`, alertID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}
