package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/deepfakebank/transfer-authorization/internal/biometric"
	"github.com/deepfakebank/transfer-authorization/internal/detection"
	"github.com/deepfakebank/transfer-authorization/internal/events"
	"github.com/deepfakebank/transfer-authorization/internal/interfaces"
	"github.com/deepfakebank/transfer-authorization/internal/models"
	"github.com/deepfakebank/transfer-authorization/internal/telemetry"
)

const (
	// MinDestinationDigits is the minimum destination account number length.
	MinDestinationDigits = 10
	// MaxDescriptionLength bounds the free-text transfer description.
	MaxDescriptionLength = 200

	defaultMinTransferAmount = 10_000
	defaultCaptureTimeout    = 5 * time.Second
	defaultAssessTimeout     = 10 * time.Second

	lockTTL = 30 * time.Second
)

// AuthorizerOptions carries the tunable knobs of the pipeline.
type AuthorizerOptions struct {
	MinTransferAmount int64
	CaptureTimeout    time.Duration
	AssessTimeout     time.Duration
}

// Authorizer runs the transfer authorization pipeline: validation, biometric
// capture, fraud assessment, settlement, audit records. Funds move only when
// both verification stages pass.
type Authorizer struct {
	accounts     interfaces.AccountRepository
	transactions interfaces.TransactionRepository
	alerts       interfaces.AlertRepository
	capture      biometric.CaptureProvider
	detector     detection.Detector
	publisher    events.Publisher
	redisClient  *redis.Client
	opts         AuthorizerOptions
}

func NewAuthorizer(
	accounts interfaces.AccountRepository,
	transactions interfaces.TransactionRepository,
	alerts interfaces.AlertRepository,
	capture biometric.CaptureProvider,
	detector detection.Detector,
	publisher events.Publisher,
	redisClient *redis.Client,
	opts AuthorizerOptions,
) *Authorizer {
	if opts.MinTransferAmount == 0 {
		opts.MinTransferAmount = defaultMinTransferAmount
	}
	if opts.CaptureTimeout == 0 {
		opts.CaptureTimeout = defaultCaptureTimeout
	}
	if opts.AssessTimeout == 0 {
		opts.AssessTimeout = defaultAssessTimeout
	}
	return &Authorizer{
		accounts:     accounts,
		transactions: transactions,
		alerts:       alerts,
		capture:      capture,
		detector:     detector,
		publisher:    publisher,
		redisClient:  redisClient,
		opts:         opts,
	}
}

// Authorize runs one attempt end to end and returns the SUCCESS transaction,
// or an error describing why the transfer did not complete. Validation and
// capture failures leave no records; a fraud verdict leaves a BLOCKED
// transaction plus a CRITICAL alert and never touches the balance.
func (a *Authorizer) Authorize(ctx context.Context, session *models.Session, req *models.TransferRequest) (*models.Transaction, error) {
	account := session.Account

	if err := a.validate(req, account); err != nil {
		telemetry.AuthorizationOutcomes.WithLabelValues("rejected").Inc()
		return nil, err
	}
	a.transition(ctx, account.ID, "", models.StateDrafting, models.StateAwaitingBiometric)

	// One authorization at a time per account. If Redis is down the store's
	// atomic debit still prevents a double spend, so errors are non-fatal.
	if a.redisClient != nil {
		lockKey := fmt.Sprintf("transfer_lock:%s", account.ID)
		locked := a.redisClient.SetNX(ctx, lockKey, "1", lockTTL)
		if locked.Err() == nil && !locked.Val() {
			telemetry.AuthorizationOutcomes.WithLabelValues("failed").Inc()
			return nil, fmt.Errorf("%w: an authorization for account %s is already in progress", models.ErrSettlement, account.AccountNumber)
		}
		defer a.redisClient.Del(context.WithoutCancel(ctx), lockKey)
	}

	artifact, err := a.captureArtifact(ctx, req)
	if err != nil {
		a.transition(ctx, account.ID, "", models.StateAwaitingBiometric, models.StateFailed)
		telemetry.AuthorizationOutcomes.WithLabelValues("failed").Inc()
		return nil, err
	}
	a.transition(ctx, account.ID, "", models.StateAwaitingBiometric, models.StateVerifying)

	// The assessment runs to a terminal outcome even if the caller goes
	// away, so the audit trail never ends mid-verification.
	assessCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.opts.AssessTimeout)
	defer cancel()
	assessment, err := a.detector.Assess(assessCtx, artifact)
	if err != nil {
		a.transition(ctx, account.ID, "", models.StateVerifying, models.StateFailed)
		telemetry.AuthorizationOutcomes.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w: fraud assessment: %v", models.ErrSettlement, err)
	}
	telemetry.DeepfakeScores.Observe(assessment.Score)

	if assessment.IsFraud {
		return nil, a.block(ctx, session, req, assessment)
	}

	a.transition(ctx, account.ID, "", models.StateVerifying, models.StateSettling)
	return a.settle(ctx, session, req)
}

// validate applies the pre-capture rules in order; the first failure wins and
// leaves no side effects.
func (a *Authorizer) validate(req *models.TransferRequest, account *models.Account) error {
	dest := strings.TrimSpace(req.ToAccountNumber)
	if len(dest) < MinDestinationDigits {
		return models.ErrInvalidDestination
	}
	if req.Amount < a.opts.MinTransferAmount {
		return models.ErrAmountTooLow
	}
	if account.Balance < req.Amount {
		return models.ErrInsufficientFunds
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" || len([]rune(req.Description)) > MaxDescriptionLength {
		return models.ErrInvalidDescription
	}
	return nil
}

func (a *Authorizer) captureArtifact(ctx context.Context, req *models.TransferRequest) (*models.CaptureArtifact, error) {
	provider := a.capture
	if req.CaptureRef != "" {
		provider = &biometric.StaticProvider{Ref: req.CaptureRef}
	}

	captureCtx, cancel := context.WithTimeout(ctx, a.opts.CaptureTimeout)
	defer cancel()

	artifact, err := provider.Capture(captureCtx)
	if err != nil {
		if errors.Is(err, models.ErrCaptureUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", models.ErrCaptureUnavailable, err)
	}
	return artifact, nil
}

func (a *Authorizer) block(ctx context.Context, session *models.Session, req *models.TransferRequest, assessment detection.Assessment) error {
	account := session.Account
	now := time.Now()

	tx := &models.Transaction{
		ID:               uuid.New().String(),
		TransactionCode:  newTransactionCode(),
		FromAccountID:    account.ID,
		ToAccountNumber:  req.ToAccountNumber,
		ToAccountName:    a.lookupAccountName(ctx, req.ToAccountNumber),
		Amount:           req.Amount,
		Description:      req.Description,
		Status:           models.TxStatusBlocked,
		FaceVerified:     false,
		DeepfakeDetected: true,
		ErrorMessage:     fmt.Sprintf("transfer blocked: deepfake detected with confidence %.1f%%", assessment.Score),
		CreatedAt:        now,
	}
	if err := a.transactions.Create(ctx, tx); err != nil {
		a.transition(ctx, account.ID, "", models.StateVerifying, models.StateFailed)
		telemetry.AuthorizationOutcomes.WithLabelValues("failed").Inc()
		return fmt.Errorf("%w: recording blocked transaction: %v", models.ErrSettlement, err)
	}

	alert := &models.Alert{
		ID:            uuid.New().String(),
		UserID:        session.User.ID,
		TransactionID: tx.ID,
		AlertType:     models.AlertTypeDeepfakeDetected,
		Severity:      models.SeverityCritical,
		Title:         "Deepfake detected",
		Message: fmt.Sprintf("A forged face was detected while authorizing a transfer of %d %s. The transaction has been blocked.",
			req.Amount, account.Currency),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		CreatedAt: now,
	}
	if err := a.alerts.Create(ctx, alert); err != nil {
		// A blocked transaction without its alert is an incomplete audit
		// trail, so this fails the attempt like a record-write failure.
		telemetry.Logger.Error("failed to create deepfake alert",
			zap.String("transaction_id", tx.ID),
			zap.Error(err),
		)
		a.transition(ctx, account.ID, tx.TransactionCode, models.StateVerifying, models.StateFailed)
		telemetry.AuthorizationOutcomes.WithLabelValues("failed").Inc()
		return fmt.Errorf("%w: recording deepfake alert: %v", models.ErrSettlement, err)
	}

	a.transition(ctx, account.ID, tx.TransactionCode, models.StateVerifying, models.StateBlocked)
	telemetry.AuthorizationOutcomes.WithLabelValues("blocked").Inc()
	telemetry.Logger.Warn("transfer blocked by fraud stage",
		zap.String("account_id", account.ID),
		zap.String("transaction_code", tx.TransactionCode),
		zap.Float64("score", assessment.Score),
	)

	return &models.DeepfakeError{TransactionCode: tx.TransactionCode, Score: assessment.Score}
}

func (a *Authorizer) settle(ctx context.Context, session *models.Session, req *models.TransferRequest) (*models.Transaction, error) {
	account := session.Account

	if err := a.accounts.Debit(ctx, account.ID, req.Amount); err != nil {
		a.transition(ctx, account.ID, "", models.StateSettling, models.StateFailed)
		telemetry.AuthorizationOutcomes.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w: %v", models.ErrSettlement, err)
	}

	now := time.Now()
	tx := &models.Transaction{
		ID:               uuid.New().String(),
		TransactionCode:  newTransactionCode(),
		FromAccountID:    account.ID,
		ToAccountNumber:  req.ToAccountNumber,
		ToAccountName:    a.lookupAccountName(ctx, req.ToAccountNumber),
		Amount:           req.Amount,
		Description:      req.Description,
		Status:           models.TxStatusSuccess,
		FaceVerified:     true,
		DeepfakeDetected: false,
		CreatedAt:        now,
		CompletedAt:      &now,
	}
	if err := a.transactions.Create(ctx, tx); err != nil {
		// Roll the debit back so balance and record sets stay consistent.
		if cerr := a.accounts.Credit(ctx, account.ID, req.Amount); cerr != nil {
			telemetry.Logger.Error("failed to compensate debit after record write failure",
				zap.String("account_id", account.ID),
				zap.Int64("amount", req.Amount),
				zap.Error(cerr),
			)
		}
		a.transition(ctx, account.ID, "", models.StateSettling, models.StateFailed)
		telemetry.AuthorizationOutcomes.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w: recording transaction: %v", models.ErrSettlement, err)
	}

	a.transition(ctx, account.ID, tx.TransactionCode, models.StateSettling, models.StateCompleted)
	telemetry.AuthorizationOutcomes.WithLabelValues("completed").Inc()
	telemetry.Logger.Info("transfer completed",
		zap.String("account_id", account.ID),
		zap.String("transaction_code", tx.TransactionCode),
		zap.Int64("amount", req.Amount),
	)

	return tx, nil
}

// lookupAccountName resolves the destination's display name when it is an
// internal account; external destinations stay "Unknown" as the source system
// has no beneficiary directory.
func (a *Authorizer) lookupAccountName(ctx context.Context, accountNumber string) string {
	if dest, err := a.accounts.GetByNumber(ctx, accountNumber); err == nil {
		return dest.AccountName
	}
	return "Unknown"
}

func (a *Authorizer) transition(ctx context.Context, accountID, txCode string, from, to models.AuthorizationState) {
	event := events.StateChangeEvent{
		AccountID:       accountID,
		TransactionCode: txCode,
		PreviousState:   from,
		State:           to,
		Timestamp:       time.Now(),
	}
	if err := a.publisher.PublishStateChange(ctx, event); err != nil {
		telemetry.Logger.Warn("failed to publish state change",
			zap.String("account_id", accountID),
			zap.String("to_state", string(to)),
			zap.Error(err),
		)
	}

	telemetry.Logger.Info("authorization state transition",
		zap.String("account_id", accountID),
		zap.String("from_state", string(from)),
		zap.String("to_state", string(to)),
	)
}

func newTransactionCode() string {
	return fmt.Sprintf("TXN%06d", 100_000+rand.Int63n(900_000))
}
