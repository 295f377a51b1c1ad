package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"finance/internal/domain"
)

// RequestValidator plugs go-playground/validator into echo
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates a new RequestValidator
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate checks the struct tags of a bound request
func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			field := strings.ToLower(fe.Field())
			if fe.Tag() == "max" {
				return domain.NewValidationError("invalid_request", fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
			}
			return domain.NewValidationError("invalid_request", fmt.Sprintf("%s is invalid", field))
		}
		return domain.NewValidationError("invalid_request", "invalid request payload")
	}
	return nil
}

// bindRequest binds a JSON or form body into req and validates it
func bindRequest(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("invalid_request", "invalid request payload")
	}
	return c.Validate(req)
}
