package models

import "time"

// Account balances are integer minor units (VND has no fractional unit).
type Account struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	AccountNumber string    `json:"account_number"`
	AccountName   string    `json:"account_name"`
	Balance       int64     `json:"balance"`
	AccountType   string    `json:"account_type"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"created_at"`
}
