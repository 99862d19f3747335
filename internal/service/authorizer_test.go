package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/deepfakebank/transfer-authorization/internal/biometric"
	"github.com/deepfakebank/transfer-authorization/internal/detection"
	"github.com/deepfakebank/transfer-authorization/internal/events"
	"github.com/deepfakebank/transfer-authorization/internal/interfaces"
	"github.com/deepfakebank/transfer-authorization/internal/models"
	"github.com/deepfakebank/transfer-authorization/internal/repository/memory"
	"github.com/deepfakebank/transfer-authorization/internal/service"
)

type fixedDetector struct {
	assessment detection.Assessment
	err        error
}

func (d *fixedDetector) Assess(ctx context.Context, artifact *models.CaptureArtifact) (detection.Assessment, error) {
	return d.assessment, d.err
}

type failingCapture struct{}

func (failingCapture) Capture(ctx context.Context) (*models.CaptureArtifact, error) {
	return nil, models.ErrCaptureUnavailable
}

type trackingCapture struct {
	called bool
	inner  biometric.CaptureProvider
}

func (c *trackingCapture) Capture(ctx context.Context) (*models.CaptureArtifact, error) {
	c.called = true
	return c.inner.Capture(ctx)
}

type failingTransactionStore struct {
	interfaces.TransactionRepository
}

func (failingTransactionStore) Create(ctx context.Context, tx *models.Transaction) error {
	return errors.New("store unavailable")
}

type failingAlertStore struct {
	interfaces.AlertRepository
}

func (failingAlertStore) Create(ctx context.Context, alert *models.Alert) error {
	return errors.New("store unavailable")
}

type fixture struct {
	accounts     *memory.AccountStore
	transactions *memory.TransactionStore
	alerts       *memory.AlertStore
	session      *models.Session
}

func newFixture(t *testing.T, balance int64) *fixture {
	t.Helper()
	f := &fixture{
		accounts:     memory.NewAccountStore(),
		transactions: memory.NewTransactionStore(),
		alerts:       memory.NewAlertStore(),
	}

	account := &models.Account{
		ID:            "acc1",
		UserID:        "user1",
		AccountNumber: "1234567890",
		AccountName:   "Nguyen Van A",
		Balance:       balance,
		AccountType:   "CHECKING",
		Currency:      "VND",
	}
	if err := f.accounts.Create(context.Background(), account); err != nil {
		t.Fatalf("create account: %v", err)
	}

	f.session = &models.Session{
		User:    &models.User{ID: "user1", Username: "nguyenvana", FullName: "Nguyen Van A"},
		Account: account,
	}
	return f
}

func (f *fixture) authorizer(detector detection.Detector) *service.Authorizer {
	return service.NewAuthorizer(
		f.accounts, f.transactions, f.alerts,
		&biometric.StubProvider{}, detector, events.NopPublisher{}, nil,
		service.AuthorizerOptions{},
	)
}

func validRequest() *models.TransferRequest {
	return &models.TransferRequest{
		ToAccountNumber: "9876543210",
		Amount:          1_000_000,
		Description:     "rent",
	}
}

func TestAuthorizeCompleted(t *testing.T) {
	f := newFixture(t, 50_000_000)
	a := f.authorizer(&fixedDetector{assessment: detection.Assessment{Score: 12.5, IsFraud: false}})

	tx, err := a.Authorize(context.Background(), f.session, validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tx.Status != models.TxStatusSuccess {
		t.Errorf("status = %s, want SUCCESS", tx.Status)
	}
	if !tx.FaceVerified || tx.DeepfakeDetected {
		t.Errorf("got faceVerified=%v deepfakeDetected=%v, want true/false", tx.FaceVerified, tx.DeepfakeDetected)
	}
	if tx.CompletedAt == nil {
		t.Error("completedAt not set on success")
	}

	account, _ := f.accounts.GetByID(context.Background(), "acc1")
	if account.Balance != 49_000_000 {
		t.Errorf("balance = %d, want 49000000", account.Balance)
	}

	list, _ := f.transactions.ListByAccount(context.Background(), "acc1")
	if len(list) != 1 || list[0].Status != models.TxStatusSuccess || list[0].Amount != 1_000_000 {
		t.Errorf("expected exactly one SUCCESS transaction for 1000000, got %+v", list)
	}

	alerts, _ := f.alerts.ListByUser(context.Background(), "user1")
	if len(alerts) != 0 {
		t.Errorf("expected no alerts on success, got %d", len(alerts))
	}
}

func TestAuthorizeBlocked(t *testing.T) {
	f := newFixture(t, 50_000_000)
	a := f.authorizer(&fixedDetector{assessment: detection.Assessment{Score: 87.3, IsFraud: true}})

	lat, lng := 10.762622, 106.660172
	req := validRequest()
	req.Latitude = &lat
	req.Longitude = &lng

	tx, err := a.Authorize(context.Background(), f.session, req)
	if tx != nil {
		t.Fatalf("expected no transaction returned on block, got %+v", tx)
	}

	var deepfakeErr *models.DeepfakeError
	if !errors.As(err, &deepfakeErr) {
		t.Fatalf("expected DeepfakeError, got %v", err)
	}
	if deepfakeErr.TransactionCode == "" {
		t.Error("blocked error missing transaction code")
	}

	account, _ := f.accounts.GetByID(context.Background(), "acc1")
	if account.Balance != 50_000_000 {
		t.Errorf("balance changed on blocked transfer: %d", account.Balance)
	}

	list, _ := f.transactions.ListByAccount(context.Background(), "acc1")
	if len(list) != 1 {
		t.Fatalf("expected exactly one transaction, got %d", len(list))
	}
	blocked := list[0]
	if blocked.Status != models.TxStatusBlocked || !blocked.DeepfakeDetected || blocked.FaceVerified {
		t.Errorf("blocked record wrong: %+v", blocked)
	}
	if !strings.Contains(blocked.ErrorMessage, "87.3") {
		t.Errorf("error message should carry the score, got %q", blocked.ErrorMessage)
	}

	alerts, _ := f.alerts.ListByUser(context.Background(), "user1")
	if len(alerts) != 1 {
		t.Fatalf("expected exactly one alert, got %d", len(alerts))
	}
	alert := alerts[0]
	if alert.Severity != models.SeverityCritical {
		t.Errorf("severity = %s, want CRITICAL", alert.Severity)
	}
	if alert.TransactionID != blocked.ID {
		t.Errorf("alert references transaction %s, want %s", alert.TransactionID, blocked.ID)
	}
	if alert.Latitude == nil || *alert.Latitude != lat {
		t.Error("alert missing geolocation")
	}
}

func TestValidationFailFastOrder(t *testing.T) {
	longDescription := strings.Repeat("x", 201)

	tests := []struct {
		name string
		req  *models.TransferRequest
		want error
	}{
		{
			name: "short destination wins over low amount",
			req:  &models.TransferRequest{ToAccountNumber: "123", Amount: 5_000, Description: ""},
			want: models.ErrInvalidDestination,
		},
		{
			name: "low amount wins over empty description",
			req:  &models.TransferRequest{ToAccountNumber: "9876543210", Amount: 5_000, Description: ""},
			want: models.ErrAmountTooLow,
		},
		{
			name: "insufficient funds wins over empty description",
			req:  &models.TransferRequest{ToAccountNumber: "9876543210", Amount: 99_000_000, Description: ""},
			want: models.ErrInsufficientFunds,
		},
		{
			name: "overlong description",
			req:  &models.TransferRequest{ToAccountNumber: "9876543210", Amount: 1_000_000, Description: longDescription},
			want: models.ErrInvalidDescription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 50_000_000)
			a := f.authorizer(&fixedDetector{})

			_, err := a.Authorize(context.Background(), f.session, tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}

			account, _ := f.accounts.GetByID(context.Background(), "acc1")
			if account.Balance != 50_000_000 {
				t.Errorf("balance changed on validation failure: %d", account.Balance)
			}
			list, _ := f.transactions.ListByAccount(context.Background(), "acc1")
			if len(list) != 0 {
				t.Errorf("transaction created on validation failure")
			}
			alerts, _ := f.alerts.ListByUser(context.Background(), "user1")
			if len(alerts) != 0 {
				t.Errorf("alert created on validation failure")
			}
		})
	}
}

func TestInsufficientFundsBeforeCapture(t *testing.T) {
	f := newFixture(t, 500_000)
	capture := &trackingCapture{inner: &biometric.StubProvider{}}

	a := service.NewAuthorizer(
		f.accounts, f.transactions, f.alerts,
		capture, &fixedDetector{}, events.NopPublisher{}, nil,
		service.AuthorizerOptions{},
	)

	req := validRequest() // amount 1,000,000 > balance 500,000
	_, err := a.Authorize(context.Background(), f.session, req)
	if !errors.Is(err, models.ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}
	if capture.called {
		t.Error("capture attempted despite failed validation")
	}
}

func TestCaptureUnavailable(t *testing.T) {
	f := newFixture(t, 50_000_000)
	a := service.NewAuthorizer(
		f.accounts, f.transactions, f.alerts,
		failingCapture{}, &fixedDetector{}, events.NopPublisher{}, nil,
		service.AuthorizerOptions{},
	)

	_, err := a.Authorize(context.Background(), f.session, validRequest())
	if !errors.Is(err, models.ErrCaptureUnavailable) {
		t.Fatalf("got %v, want ErrCaptureUnavailable", err)
	}

	list, _ := f.transactions.ListByAccount(context.Background(), "acc1")
	if len(list) != 0 {
		t.Error("transaction created for an authorization that never began")
	}
	account, _ := f.accounts.GetByID(context.Background(), "acc1")
	if account.Balance != 50_000_000 {
		t.Errorf("balance changed on capture failure: %d", account.Balance)
	}
}

func TestSettlementRollbackOnRecordFailure(t *testing.T) {
	f := newFixture(t, 50_000_000)
	a := service.NewAuthorizer(
		f.accounts, failingTransactionStore{f.transactions}, f.alerts,
		&biometric.StubProvider{}, &fixedDetector{assessment: detection.Assessment{Score: 5}},
		events.NopPublisher{}, nil,
		service.AuthorizerOptions{},
	)

	_, err := a.Authorize(context.Background(), f.session, validRequest())
	if !errors.Is(err, models.ErrSettlement) {
		t.Fatalf("got %v, want ErrSettlement", err)
	}

	account, _ := f.accounts.GetByID(context.Background(), "acc1")
	if account.Balance != 50_000_000 {
		t.Errorf("debit not rolled back: balance = %d", account.Balance)
	}
}

func TestBlockFailsWhenAlertCannotBeRecorded(t *testing.T) {
	f := newFixture(t, 50_000_000)
	a := service.NewAuthorizer(
		f.accounts, f.transactions, failingAlertStore{f.alerts},
		&biometric.StubProvider{}, &fixedDetector{assessment: detection.Assessment{Score: 91.2, IsFraud: true}},
		events.NopPublisher{}, nil,
		service.AuthorizerOptions{},
	)

	_, err := a.Authorize(context.Background(), f.session, validRequest())
	if !errors.Is(err, models.ErrSettlement) {
		t.Fatalf("got %v, want ErrSettlement", err)
	}
	var deepfakeErr *models.DeepfakeError
	if errors.As(err, &deepfakeErr) {
		t.Fatal("a block missing its alert must not be reported as complete")
	}

	account, _ := f.accounts.GetByID(context.Background(), "acc1")
	if account.Balance != 50_000_000 {
		t.Errorf("balance changed on failed block: %d", account.Balance)
	}
}

func TestConcurrentAuthorizationsSingleDebit(t *testing.T) {
	f := newFixture(t, 1_000_000)
	a := f.authorizer(&fixedDetector{assessment: detection.Assessment{Score: 3}})

	req := validRequest() // amount equals the full balance

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Each attempt gets its own session snapshot, as two devices would.
			account, _ := f.accounts.GetByID(context.Background(), "acc1")
			session := &models.Session{User: f.session.User, Account: account}
			_, errs[i] = a.Authorize(context.Background(), session, req)
		}(i)
	}
	wg.Wait()

	var succeeded, failed int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if errors.Is(err, models.ErrSettlement) || errors.Is(err, models.ErrInsufficientFunds) {
			failed++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || failed != 1 {
		t.Fatalf("got %d completed, %d failed; want exactly one of each", succeeded, failed)
	}

	account, _ := f.accounts.GetByID(context.Background(), "acc1")
	if account.Balance != 0 {
		t.Errorf("balance = %d, want 0 after single debit", account.Balance)
	}

	list, _ := f.transactions.ListByAccount(context.Background(), "acc1")
	var successes int
	for _, tx := range list {
		if tx.Status == models.TxStatusSuccess {
			successes++
		}
	}
	if successes != 1 {
		t.Errorf("got %d SUCCESS transactions, want 1", successes)
	}
}

func TestHistoryIncludesNewRecordOnce(t *testing.T) {
	f := newFixture(t, 50_000_000)
	a := f.authorizer(&fixedDetector{assessment: detection.Assessment{Score: 8}})

	tx, err := a.Authorize(context.Background(), f.session, validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := f.transactions.ListByAccount(context.Background(), "acc1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var seen int
	for _, item := range list {
		if item.ID == tx.ID {
			seen++
		}
	}
	if seen != 1 {
		t.Errorf("new record appears %d times in history, want 1", seen)
	}
}
