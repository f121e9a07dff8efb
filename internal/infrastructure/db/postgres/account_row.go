package postgres

import "time"

type accountRow struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
