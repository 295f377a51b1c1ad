package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance/configs"
	"finance/internal/domain"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, configs.DatabaseConfig{
		Driver:     configs.DriverSQLite,
		SQLitePath: "file:store_test?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Ping(ctx))

	_, err = s.Users.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	symbols, err := s.Ledger.ListSymbols(ctx)
	require.NoError(t, err)
	assert.Empty(t, symbols)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), configs.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}
