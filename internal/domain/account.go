package domain

import "time"

// Account is a registered user of the monitoring tool. Email is stored
// normalized (trimmed, lowercased) and is unique per account.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session links an opaque client-held token to an authenticated account.
// Email is a denormalized display copy taken at issuance time.
type Session struct {
	AccountID string
	Email     string
}
