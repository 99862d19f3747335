package memory

import (
	"context"
	"sync"

	"github.com/deepfakebank/transfer-authorization/internal/models"
)

type TransactionStore struct {
	mu           sync.Mutex
	transactions []*models.Transaction
}

func NewTransactionStore() *TransactionStore {
	return &TransactionStore{}
}

func (s *TransactionStore) Create(ctx context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *tx
	// Newest first, matching the history listing order.
	s.transactions = append([]*models.Transaction{&cp}, s.transactions...)
	return nil
}

func (s *TransactionStore) GetByCode(ctx context.Context, code string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.transactions {
		if tx.TransactionCode == code {
			cp := *tx
			return &cp, nil
		}
	}
	return nil, models.ErrRecordNotFound
}

func (s *TransactionStore) ListByAccount(ctx context.Context, accountID string) ([]*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*models.Transaction
	for _, tx := range s.transactions {
		if tx.FromAccountID == accountID {
			cp := *tx
			list = append(list, &cp)
		}
	}
	return list, nil
}
