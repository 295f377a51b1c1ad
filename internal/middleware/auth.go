package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SessionCookie is the cookie carrying the session token
const SessionCookie = "session"

const userIDKey = "user_id"

// SessionResolver turns a session token into the logged-in user's id
type SessionResolver interface {
	RequireSession(ctx context.Context, token string) (uuid.UUID, error)
}

// RequireSession rejects requests without a live session before they reach a handler
func RequireSession(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := resolver.RequireSession(c.Request().Context(), TokenFromRequest(c))
			if err != nil {
				return err
			}

			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// TokenFromRequest reads the session token from the Authorization header, falling back to the cookie
func TokenFromRequest(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	cookie, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// GetUserID extracts user ID from echo context
func GetUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get(userIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("user_id not found in context")
	}
	return userID, nil
}
