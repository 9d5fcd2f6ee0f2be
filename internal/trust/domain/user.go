package domain

import "time"

type User struct {
	ID           Subject
	Username     string
	PasswordHash string // argon2 encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
