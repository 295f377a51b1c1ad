package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Repository sentinels, wrapped by the store implementations
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Kind is the stable classification of an Error. Match with errors.Is(err, KindX).
type Kind string

const (
	KindValidation         Kind = "validation"
	KindAuth               Kind = "auth"
	KindNotFound           Kind = "not_found"
	KindInsufficientFunds  Kind = "insufficient_funds"
	KindInsufficientShares Kind = "insufficient_shares"
	KindQuoteUnavailable   Kind = "quote_unavailable"
	KindStoreUnavailable   Kind = "store_unavailable"
)

func (k Kind) Error() string { return string(k) }

// Error is a user-facing failure with a stable code and a human-readable message
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.Message, e.Code, e.Err)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the error's Kind
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// NewValidationError reports missing or malformed input
func NewValidationError(code, message string) *Error {
	return newError(KindValidation, code, message)
}

// NewAuthError reports bad credentials or a missing session
func NewAuthError(code, message string) *Error {
	return newError(KindAuth, code, message)
}

// NewNotFoundError reports an unknown symbol or holding
func NewNotFoundError(code, message string) *Error {
	return newError(KindNotFound, code, message)
}

// NewInsufficientFundsError is returned when a buy costs more than the available cash
func NewInsufficientFundsError(cost, cash decimal.Decimal) *Error {
	return newError(KindInsufficientFunds, "insufficient_funds",
		fmt.Sprintf("cannot afford: cost %s exceeds cash %s", cost.StringFixed(2), cash.StringFixed(2)))
}

// NewInsufficientSharesError is returned when a sell asks for more shares than held
func NewInsufficientSharesError(requested, held int64) *Error {
	return newError(KindInsufficientShares, "insufficient_shares",
		fmt.Sprintf("invalid number of shares: requested %d, holding %d", requested, held))
}

// NewQuoteUnavailableError wraps a quote provider failure
func NewQuoteUnavailableError(err error) *Error {
	e := newError(KindQuoteUnavailable, "quote_unavailable", "quote service is unavailable, try again later")
	e.Err = err
	return e
}

// NewStoreUnavailableError wraps a persistence failure
func NewStoreUnavailableError(err error) *Error {
	e := newError(KindStoreUnavailable, "store_unavailable", "internal error")
	e.Err = err
	return e
}

// AsError extracts a *Error from err's chain
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
