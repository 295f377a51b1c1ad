// Package store opens the configured ledger backend.
package store

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"finance/configs"
	"finance/internal/database"
	"finance/internal/domain"
	"finance/internal/infra"
	"finance/internal/repository"
	"finance/internal/repository/sqlite"
)

// Store bundles the repositories of one backend
type Store struct {
	Users  domain.UserRepository
	Ledger domain.LedgerRepository

	ping    func(ctx context.Context) error
	closeFn func()
}

// Open connects to the backend selected by STORE_DRIVER and brings its schema up to date
func Open(ctx context.Context, cfg configs.DatabaseConfig) (*Store, error) {
	switch cfg.Driver {
	case configs.DriverSQLite:
		return openSQLite(cfg.SQLitePath)
	case configs.DriverPostgres:
		return openPostgres(ctx, cfg.URL)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func openSQLite(path string) (*Store, error) {
	db, err := infra.NewSQLite(path)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
	}

	if err := sqlite.Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &Store{
		Users:  sqlite.NewUserRepository(db),
		Ledger: sqlite.NewLedgerRepository(db),
		ping:   sqlDB.PingContext,
		closeFn: func() {
			if err := sqlDB.Close(); err != nil {
				log.WithError(err).Error("ERROR: failed to close sqlite")
			}
		},
	}, nil
}

func openPostgres(ctx context.Context, url string) (*Store, error) {
	pool, err := infra.NewDatabase(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{
		Users:   repository.NewUserRepository(pool),
		Ledger:  repository.NewLedgerRepository(pool),
		ping:    pool.Ping,
		closeFn: pool.Close,
	}, nil
}

// Ping checks that the backend is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the backend's connections
func (s *Store) Close() {
	s.closeFn()
}
