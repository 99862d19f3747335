package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/deepfakebank/transfer-authorization/internal/models"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, account_number, account_name, balance, account_type, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`, account.ID, account.UserID, account.AccountNumber, account.AccountName,
		account.Balance, account.AccountType, account.Currency)
	return err
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, user_id, account_number, account_name, balance, account_type, currency, created_at
		 FROM accounts WHERE id = $1`, id))
}

func (r *AccountRepository) GetByUserID(ctx context.Context, userID string) (*models.Account, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, user_id, account_number, account_name, balance, account_type, currency, created_at
		 FROM accounts WHERE user_id = $1`, userID))
}

func (r *AccountRepository) GetByNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, user_id, account_number, account_name, balance, account_type, currency, created_at
		 FROM accounts WHERE account_number = $1`, accountNumber))
}

// Debit is a compare-and-set: the balance write only happens when the balance
// is still sufficient, so concurrent attempts on one account cannot both win.
func (r *AccountRepository) Debit(ctx context.Context, accountID string, amount int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET balance = balance - $1
		WHERE id = $2 AND balance >= $1
	`, amount, accountID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrInsufficientFunds
	}
	return nil
}

func (r *AccountRepository) Credit(ctx context.Context, accountID string, amount int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + $1 WHERE id = $2`, amount, accountID)
	return err
}

func (r *AccountRepository) scanOne(row *sql.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.UserID, &a.AccountNumber, &a.AccountName,
		&a.Balance, &a.AccountType, &a.Currency, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
