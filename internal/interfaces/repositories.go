package interfaces

import (
	"context"

	"github.com/deepfakebank/transfer-authorization/internal/models"
)

// AccountRepository defines the contract for account data access. Debit must
// be atomic per account: the sufficiency check and the balance write are one
// operation, so two concurrent attempts can never both succeed when their
// combined amount exceeds the balance.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByUserID(ctx context.Context, userID string) (*models.Account, error)
	GetByNumber(ctx context.Context, accountNumber string) (*models.Account, error)
	// Debit subtracts amount if and only if balance >= amount, returning
	// models.ErrInsufficientFunds otherwise.
	Debit(ctx context.Context, accountID string, amount int64) error
	// Credit adds amount back; used to compensate a debit whose record
	// write failed.
	Credit(ctx context.Context, accountID string, amount int64) error
}

// TransactionRepository is append-only; records are never updated or deleted.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByCode(ctx context.Context, code string) (*models.Transaction, error)
	ListByAccount(ctx context.Context, accountID string) ([]*models.Transaction, error)
}

type AlertRepository interface {
	Create(ctx context.Context, alert *models.Alert) error
	ListByUser(ctx context.Context, userID string) ([]*models.Alert, error)
	MarkRead(ctx context.Context, alertID string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
