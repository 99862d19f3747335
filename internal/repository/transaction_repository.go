package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/deepfakebank/transfer-authorization/internal/models"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, transaction_code, from_account_id, to_account_number,
			to_account_name, amount, description, status, face_verified, deepfake_detected,
			error_message, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, tx.ID, tx.TransactionCode, tx.FromAccountID, tx.ToAccountNumber, tx.ToAccountName,
		tx.Amount, tx.Description, tx.Status, tx.FaceVerified, tx.DeepfakeDetected,
		nullString(tx.ErrorMessage), tx.CreatedAt, tx.CompletedAt)
	return err
}

func (r *TransactionRepository) GetByCode(ctx context.Context, code string) (*models.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, transaction_code, from_account_id, to_account_number, to_account_name,
			amount, description, status, face_verified, deepfake_detected, error_message,
			created_at, completed_at
		FROM transactions WHERE transaction_code = $1
	`, code)
	return scanTransaction(row.Scan)
}

func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string) ([]*models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, transaction_code, from_account_id, to_account_number, to_account_name,
			amount, description, status, face_verified, deepfake_detected, error_message,
			created_at, completed_at
		FROM transactions WHERE from_account_id = $1
		ORDER BY created_at DESC
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, tx)
	}
	return list, rows.Err()
}

func scanTransaction(scan func(...any) error) (*models.Transaction, error) {
	var tx models.Transaction
	var errMsg sql.NullString
	err := scan(&tx.ID, &tx.TransactionCode, &tx.FromAccountID, &tx.ToAccountNumber,
		&tx.ToAccountName, &tx.Amount, &tx.Description, &tx.Status, &tx.FaceVerified,
		&tx.DeepfakeDetected, &errMsg, &tx.CreatedAt, &tx.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	tx.ErrorMessage = errMsg.String
	return &tx, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
