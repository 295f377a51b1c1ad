package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance/internal/domain"
)

type fakeResolver struct {
	tokens map[string]uuid.UUID
}

func (r *fakeResolver) RequireSession(_ context.Context, token string) (uuid.UUID, error) {
	userID, ok := r.tokens[token]
	if !ok {
		return uuid.Nil, domain.NewAuthError("unauthenticated", "login required")
	}
	return userID, nil
}

func TestRequireSession(t *testing.T) {
	userID := uuid.New()
	resolver := &fakeResolver{tokens: map[string]uuid.UUID{"good": userID}}
	e := echo.New()

	handler := RequireSession(resolver)(func(c echo.Context) error {
		got, err := GetUserID(c)
		require.NoError(t, err)
		return c.String(http.StatusOK, got.String())
	})

	testTable := []struct {
		name    string
		prepare func(r *http.Request)
		wantErr bool
	}{
		{
			name:    "bearer header",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") },
		},
		{
			name:    "cookie",
			prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"}) },
		},
		{
			name:    "no token",
			prepare: func(r *http.Request) {},
			wantErr: true,
		},
		{
			name:    "unknown token",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer bad") },
			wantErr: true,
		},
		{
			name:    "wrong scheme",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Basic good") },
			wantErr: true,
		},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			testCase.prepare(req)
			rec := httptest.NewRecorder()

			err := handler(e.NewContext(req, rec))
			if testCase.wantErr {
				assert.ErrorIs(t, err, domain.KindAuth)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID.String(), rec.Body.String())
		})
	}
}

func TestGetUserID_Missing(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, err := GetUserID(c)
	assert.Error(t, err)
}
