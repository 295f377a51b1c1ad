package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"finance/internal/domain"
	"finance/internal/session"
)

// AuthService handles registration, login and session checks
type AuthService struct {
	users           domain.UserRepository
	sessions        session.Store
	tokens          *session.Tokens
	startingBalance decimal.Decimal
	hashCost        int
	now             func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users domain.UserRepository,
	sessions session.Store,
	tokens *session.Tokens,
	startingBalance decimal.Decimal,
) *AuthService {
	return &AuthService{
		users:           users,
		sessions:        sessions,
		tokens:          tokens,
		startingBalance: startingBalance,
		hashCost:        bcrypt.DefaultCost,
		now:             time.Now,
	}
}

// Register creates an account funded with the starting balance
func (s *AuthService) Register(ctx context.Context, username, password, confirmation string) (*domain.User, error) {
	username = strings.TrimSpace(username)

	switch {
	case username == "":
		return nil, domain.NewValidationError("missing_username", "must provide username")
	case password == "":
		return nil, domain.NewValidationError("missing_password", "must provide password")
	case utf8.RuneCountInString(password) < domain.MinPasswordLength:
		return nil, domain.NewValidationError("password_too_short", "password must be at least 6 characters long")
	case len(password) > domain.MaxPasswordBytes:
		return nil, domain.NewValidationError("password_too_long", "password must be at most 72 bytes long")
	case confirmation == "":
		return nil, domain.NewValidationError("missing_confirmation", "must confirm password")
	case password != confirmation:
		return nil, domain.NewValidationError("password_mismatch", "passwords do not match")
	}

	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil, usernameTaken()
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, s.storeError("register", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, s.storeError("register", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Cash:         s.startingBalance,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, usernameTaken()
		}
		return nil, s.storeError("register", err)
	}

	log.WithField("username", username).Info("[OK] User registered")
	return user, nil
}

// Login checks credentials and opens a session. It returns the signed session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", nil, domain.NewValidationError("missing_username", "must provide username")
	}
	if password == "" {
		return "", nil, domain.NewValidationError("missing_password", "must provide password")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, invalidCredentials()
		}
		return "", nil, s.storeError("login", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, invalidCredentials()
	}

	sessionID := uuid.NewString()
	if err := s.sessions.Save(ctx, sessionID, user.ID); err != nil {
		return "", nil, s.storeError("login", err)
	}

	token, err := s.tokens.Issue(sessionID, user.ID)
	if err != nil {
		return "", nil, s.storeError("login", err)
	}

	return token, user, nil
}

// Logout revokes the session behind token. Unknown or malformed tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	sessionID, _, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return s.storeError("logout", err)
	}
	return nil
}

// RequireSession resolves a token to the logged-in user
func (s *AuthService) RequireSession(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, unauthenticated()
	}

	sessionID, userID, err := s.tokens.Parse(token)
	if err != nil {
		return uuid.Nil, unauthenticated()
	}

	stored, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return uuid.Nil, unauthenticated()
		}
		return uuid.Nil, s.storeError("session", err)
	}
	if stored != userID {
		return uuid.Nil, unauthenticated()
	}

	return userID, nil
}

func (s *AuthService) storeError(op string, err error) error {
	log.WithError(err).WithField("op", op).Error("ERROR: auth operation failed")
	return domain.NewStoreUnavailableError(err)
}

func usernameTaken() error {
	return domain.NewValidationError("username_taken", "username already exists")
}

func invalidCredentials() error {
	return domain.NewAuthError("invalid_credentials", "invalid username and/or password")
}

func unauthenticated() error {
	return domain.NewAuthError("unauthenticated", "login required")
}
