package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"finance/internal/delivery/http/dto"
	"finance/internal/middleware"
	"finance/internal/usecase"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	auth         *usecase.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie marks the session cookie HTTPS-only.
func NewAuthHandler(auth *usecase.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		secureCookie: secureCookie,
	}
}

// Register handles account creation
// POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.auth.Register(ctx, req.Username, req.Password, req.Confirmation)
	if err != nil {
		return err
	}

	return CreatedResponse(c, "Registered!", dto.NewUserOutput(user))
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	token, user, err := h.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})

	return SuccessMessageResponse(c, "Login successful", dto.LoginResponse{
		Token: token,
		User:  dto.NewUserOutput(user),
	})
}

// Logout handles user logout
// POST /api/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.auth.Logout(ctx, middleware.TokenFromRequest(c)); err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})

	return SuccessMessageResponse(c, "Logout successful", nil)
}
