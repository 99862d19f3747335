package models

import "time"

type User struct {
	ID                      string    `json:"id"`
	Username                string    `json:"username"`
	Email                   string    `json:"email"`
	PasswordHash            string    `json:"-"`
	FullName                string    `json:"full_name"`
	Phone                   string    `json:"phone,omitempty"`
	FaceVerificationEnabled bool      `json:"face_verification_enabled"`
	CreatedAt               time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by both login and register.
type LoginResponse struct {
	Token   string   `json:"token"`
	User    *User    `json:"user"`
	Account *Account `json:"account"`
}

// Session carries the authenticated identity and its account into the
// authorization pipeline. It is always passed explicitly; the pipeline
// has no ambient user state.
type Session struct {
	User    *User
	Account *Account
}
