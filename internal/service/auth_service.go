package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deepfakebank/transfer-authorization/internal/interfaces"
	"github.com/deepfakebank/transfer-authorization/internal/models"
	"github.com/deepfakebank/transfer-authorization/internal/utils"
)

// New accounts open with a seeded balance (minor units) so the transfer flow
// is usable immediately after registration.
const openingBalance = 10_000_000

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type AuthService struct {
	users    interfaces.UserRepository
	accounts interfaces.AccountRepository
	secret   []byte
}

func NewAuthService(users interfaces.UserRepository, accounts interfaces.AccountRepository, jwtSecret []byte) *AuthService {
	return &AuthService{users: users, accounts: accounts, secret: jwtSecret}
}

func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" || strings.TrimSpace(req.Email) == "" {
		return nil, ErrInvalidCredentials
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	}
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:                      uuid.New().String(),
		Username:                username,
		Email:                   req.Email,
		PasswordHash:            hash,
		FullName:                req.FullName,
		Phone:                   req.Phone,
		FaceVerificationEnabled: true,
		CreatedAt:               time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:            uuid.New().String(),
		UserID:        user.ID,
		AccountNumber: generateAccountNumber(),
		AccountName:   user.FullName,
		Balance:       openingBalance,
		AccountType:   "CHECKING",
		Currency:      "VND",
		CreatedAt:     time.Now(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(s.secret, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{Token: token, User: user, Account: account}, nil
}

func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := utils.ComparePassword(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	account, err := s.accounts.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(s.secret, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{Token: token, User: user, Account: account}, nil
}

// SessionFor loads the identity and account behind an authenticated user id.
func (s *AuthService) SessionFor(ctx context.Context, userID string) (*models.Session, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.Session{User: user, Account: account}, nil
}

func generateAccountNumber() string {
	return fmt.Sprintf("%010d", rand.Int63n(10_000_000_000))
}
