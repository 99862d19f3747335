package memory

import (
	"context"
	"sync"

	"github.com/deepfakebank/transfer-authorization/internal/models"
)

type AlertStore struct {
	mu     sync.Mutex
	alerts []*models.Alert
}

func NewAlertStore() *AlertStore {
	return &AlertStore{}
}

func (s *AlertStore) Create(ctx context.Context, alert *models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *alert
	s.alerts = append([]*models.Alert{&cp}, s.alerts...)
	return nil
}

func (s *AlertStore) ListByUser(ctx context.Context, userID string) ([]*models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*models.Alert
	for _, a := range s.alerts {
		if a.UserID == userID {
			cp := *a
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (s *AlertStore) MarkRead(ctx context.Context, alertID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.alerts {
		if a.ID == alertID {
			a.IsRead = true
			return nil
		}
	}
	return models.ErrRecordNotFound
}
