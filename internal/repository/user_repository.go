package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/deepfakebank/transfer-authorization/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, full_name, phone, face_verification_enabled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`, user.ID, user.Username, user.Email, user.PasswordHash, user.FullName,
		user.Phone, user.FaceVerificationEnabled)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, full_name, phone, face_verification_enabled, created_at
		 FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, full_name, phone, face_verification_enabled, created_at
		 FROM users WHERE username = $1`, username))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, full_name, phone, face_verification_enabled, created_at
		 FROM users WHERE email = $1`, email))
}

func (r *UserRepository) scanOne(row *sql.Row) (*models.User, error) {
	var u models.User
	var phone sql.NullString
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName,
		&phone, &u.FaceVerificationEnabled, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Phone = phone.String
	return &u, nil
}
