package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MinPasswordLength is the shortest password Register accepts
const MinPasswordLength = 6

// MaxPasswordBytes is bcrypt's input limit
const MaxPasswordBytes = 72

// User represents a registered account holder
type User struct {
	ID           uuid.UUID       `json:"id"`
	Username     string          `json:"username"`
	PasswordHash string          `json:"-"` // Never expose password hash in JSON
	Cash         decimal.Decimal `json:"cash"`
	CreatedAt    time.Time       `json:"created_at"`
}
