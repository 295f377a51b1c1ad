// Package sqlite stores users and the ledger in SQLite through gorm.
// It backs local development, the CLI and tests.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"finance/internal/domain"
)

// UserRepositoryImpl implements the UserRepository interface
type UserRepositoryImpl struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create creates a new user
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	m := &userModel{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Cash:         user.Cash,
		CreatedAt:    user.CreatedAt.UTC(),
	}

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, wrapNotFound(err, "failed to get user")
	}
	return m.toDomain(), nil
}

// GetByUsername retrieves a user by username
func (r *UserRepositoryImpl) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		return nil, wrapNotFound(err, "failed to get user")
	}
	return m.toDomain(), nil
}

// LedgerRepositoryImpl implements the LedgerRepository interface
type LedgerRepositoryImpl struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *gorm.DB) domain.LedgerRepository {
	return &LedgerRepositoryImpl{db: db}
}

// WithinTx runs fn inside a gorm transaction.
// The database is opened with a single connection, so transactions never interleave.
func (r *LedgerRepositoryImpl) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.LedgerTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &ledgerTx{db: tx})
	})
}

// GetCash returns the user's cash balance
func (r *LedgerRepositoryImpl) GetCash(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return getCash(r.db.WithContext(ctx), userID)
}

// GetHolding retrieves one holding of a user
func (r *LedgerRepositoryImpl) GetHolding(ctx context.Context, userID uuid.UUID, symbol string) (*domain.Holding, error) {
	return getHolding(r.db.WithContext(ctx), userID, symbol)
}

// ListHoldings retrieves all holdings of a user ordered by symbol
func (r *LedgerRepositoryImpl) ListHoldings(ctx context.Context, userID uuid.UUID) ([]*domain.Holding, error) {
	var models []holdingModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("symbol ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}

	holdings := make([]*domain.Holding, 0, len(models))
	for i := range models {
		holdings = append(holdings, models[i].toDomain())
	}
	return holdings, nil
}

// ListTransactions retrieves the history of a user, oldest first
func (r *LedgerRepositoryImpl) ListTransactions(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	var models []transactionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("executed_at ASC").
		Order("seq ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	txs := make([]*domain.Transaction, 0, len(models))
	for i := range models {
		txs = append(txs, models[i].toDomain())
	}
	return txs, nil
}

// ListSymbols retrieves the distinct symbols held by any user
func (r *LedgerRepositoryImpl) ListSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	err := r.db.WithContext(ctx).
		Model(&holdingModel{}).
		Distinct("symbol").
		Order("symbol ASC").
		Pluck("symbol", &symbols).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list symbols: %w", err)
	}
	return symbols, nil
}

// ledgerTx implements domain.LedgerTx on top of a gorm transaction
type ledgerTx struct {
	db *gorm.DB
}

func (t *ledgerTx) LockCash(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return getCash(t.db.WithContext(ctx), userID)
}

func (t *ledgerTx) SetCash(ctx context.Context, userID uuid.UUID, cash decimal.Decimal) error {
	res := t.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", userID).
		Update("cash", cash)
	if res.Error != nil {
		return fmt.Errorf("failed to update cash: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *ledgerTx) GetHolding(ctx context.Context, userID uuid.UUID, symbol string) (*domain.Holding, error) {
	return getHolding(t.db.WithContext(ctx), userID, symbol)
}

func (t *ledgerTx) UpsertHolding(ctx context.Context, h *domain.Holding) error {
	err := t.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "symbol"}},
			UpdateAll: true,
		}).
		Create(newHoldingModel(h)).Error
	if err != nil {
		return fmt.Errorf("failed to upsert holding: %w", err)
	}
	return nil
}

func (t *ledgerTx) DeleteHolding(ctx context.Context, userID uuid.UUID, symbol string) error {
	res := t.db.WithContext(ctx).
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Delete(&holdingModel{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete holding: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *ledgerTx) AppendTransaction(ctx context.Context, tx *domain.Transaction) error {
	m := &transactionModel{
		ID:         tx.ID,
		UserID:     tx.UserID,
		Symbol:     tx.Symbol,
		Shares:     tx.Shares,
		Price:      tx.Price,
		ExecutedAt: tx.ExecutedAt.UTC(),
	}
	if err := t.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

func getCash(db *gorm.DB, userID uuid.UUID) (decimal.Decimal, error) {
	var m userModel
	if err := db.Select("cash").Where("id = ?", userID).First(&m).Error; err != nil {
		return decimal.Zero, wrapNotFound(err, "failed to get cash")
	}
	return m.Cash, nil
}

func getHolding(db *gorm.DB, userID uuid.UUID, symbol string) (*domain.Holding, error) {
	var m holdingModel
	if err := db.Where("user_id = ? AND symbol = ?", userID, symbol).First(&m).Error; err != nil {
		return nil, wrapNotFound(err, "failed to get holding")
	}
	return m.toDomain(), nil
}

func wrapNotFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
