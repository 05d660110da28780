package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Email is stored normalized (trimmed, lower-cased) and is unique;
// Password holds a bcrypt hash, never plaintext.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
}
