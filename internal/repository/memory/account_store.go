// Package memory provides mutex-guarded in-memory repository implementations.
// They back the service when no database is configured and keep the pipeline
// tests free of external infrastructure.
package memory

import (
	"context"
	"sync"

	"github.com/deepfakebank/transfer-authorization/internal/models"
)

type AccountStore struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
}

func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[string]*models.Account)}
}

func (s *AccountStore) Create(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *account
	s.accounts[account.ID] = &cp
	return nil
}

func (s *AccountStore) GetByID(ctx context.Context, id string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, models.ErrRecordNotFound
}

func (s *AccountStore) GetByUserID(ctx context.Context, userID string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, models.ErrRecordNotFound
}

func (s *AccountStore) GetByNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.AccountNumber == accountNumber {
			cp := *a
			return &cp, nil
		}
	}
	return nil, models.ErrRecordNotFound
}

// Debit checks sufficiency and writes the new balance under one lock, so
// concurrent attempts on the same account serialize.
func (s *AccountStore) Debit(ctx context.Context, accountID string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return models.ErrRecordNotFound
	}
	if a.Balance < amount {
		return models.ErrInsufficientFunds
	}
	a.Balance -= amount
	return nil
}

func (s *AccountStore) Credit(ctx context.Context, accountID string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return models.ErrRecordNotFound
	}
	a.Balance += amount
	return nil
}
