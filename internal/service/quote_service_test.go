package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance/internal/domain"
)

func newQuoteServer(t *testing.T, handler http.HandlerFunc) *QuoteService {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewQuoteService(srv.URL+"/", "secret", time.Second)
}

func TestQuoteService_Lookup(t *testing.T) {
	svc := newQuoteServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/AAPL/quote", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"aapl","companyName":"Apple Inc.","latestPrice":187.44}`))
	})

	quote, err := svc.Lookup(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, "Apple Inc.", quote.Name)
	assert.True(t, quote.Price.Equal(decimal.RequireFromString("187.44")))
}

func TestQuoteService_LookupErrors(t *testing.T) {
	testTable := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "404 is not found", status: http.StatusNotFound, body: "Unknown symbol", wantErr: domain.ErrSymbolNotFound},
		{name: "empty body is not found", status: http.StatusOK, body: "", wantErr: domain.ErrSymbolNotFound},
		{name: "missing symbol is not found", status: http.StatusOK, body: `{}`, wantErr: domain.ErrSymbolNotFound},
		{name: "server error", status: http.StatusInternalServerError, body: "boom"},
		{name: "malformed json", status: http.StatusOK, body: "{"},
		{name: "null price", status: http.StatusOK, body: `{"symbol":"X","latestPrice":null}`},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			svc := newQuoteServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(testCase.status)
				_, _ = w.Write([]byte(testCase.body))
			})

			_, err := svc.Lookup(context.Background(), "X")
			require.Error(t, err)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			} else {
				assert.NotErrorIs(t, err, domain.ErrSymbolNotFound)
			}
		})
	}
}

func TestQuoteService_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	svc := NewQuoteService(srv.URL, "secret", time.Second)
	_, err := svc.Lookup(context.Background(), "AAPL")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSymbolNotFound)
}
