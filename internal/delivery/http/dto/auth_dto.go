package dto

import (
	"github.com/shopspring/decimal"

	"finance/internal/domain"
	"finance/internal/utils"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"max=64"`
	Password string `json:"password" form:"password" validate:"max=72"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token string      `json:"token"`
	User  *UserOutput `json:"user"`
}

// RegisterRequest represents the registration request payload.
// Presence and length rules are checked by the auth service so each failure gets its own code.
type RegisterRequest struct {
	Username     string `json:"username" form:"username" validate:"max=64"`
	Password     string `json:"password" form:"password" validate:"max=72"`
	Confirmation string `json:"confirmation" form:"confirmation" validate:"max=72"`
}

// UserOutput represents user data in API responses
type UserOutput struct {
	ID          string          `json:"id"`
	Username    string          `json:"username"`
	Cash        decimal.Decimal `json:"cash"`
	CashDisplay string          `json:"cash_display"`
}

// NewUserOutput converts a domain user
func NewUserOutput(user *domain.User) *UserOutput {
	return &UserOutput{
		ID:          user.ID.String(),
		Username:    user.Username,
		Cash:        user.Cash,
		CashDisplay: utils.USD(user.Cash),
	}
}
