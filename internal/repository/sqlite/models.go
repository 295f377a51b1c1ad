package sqlite

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finance/internal/domain"
)

// Money columns are TEXT so SQLite never coerces them to floating point.
// Checks on them cast to REAL, since SQLite orders any TEXT value above every number.

type userModel struct {
	ID           uuid.UUID       `gorm:"column:id;type:text;primaryKey"`
	Username     string          `gorm:"column:username;uniqueIndex;not null"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	Cash         decimal.Decimal `gorm:"column:cash;type:text;not null;check:chk_users_cash,CAST(cash AS REAL) >= 0"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
}

func (userModel) TableName() string { return "users" }

type holdingModel struct {
	UserID     uuid.UUID       `gorm:"column:user_id;type:text;primaryKey"`
	Symbol     string          `gorm:"column:symbol;primaryKey;index"`
	Name       string          `gorm:"column:name;not null"`
	Shares     int64           `gorm:"column:shares;not null;check:chk_holdings_shares,shares > 0"`
	Price      decimal.Decimal `gorm:"column:price;type:text;not null"`
	AvgCost    decimal.Decimal `gorm:"column:avg_cost;type:text;not null"`
	TotalValue decimal.Decimal `gorm:"column:total_value;type:text;not null"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`

	User *userModel `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (holdingModel) TableName() string { return "holdings" }

type transactionModel struct {
	Seq        int64           `gorm:"column:seq;primaryKey;autoIncrement"`
	ID         uuid.UUID       `gorm:"column:id;type:text;uniqueIndex;not null"`
	UserID     uuid.UUID       `gorm:"column:user_id;type:text;index:idx_transactions_user_executed,priority:1;not null"`
	Symbol     string          `gorm:"column:symbol;not null"`
	Shares     int64           `gorm:"column:shares;not null;check:chk_transactions_shares,shares <> 0"`
	Price      decimal.Decimal `gorm:"column:price;type:text;not null"`
	ExecutedAt time.Time       `gorm:"column:executed_at;index:idx_transactions_user_executed,priority:2"`

	User *userModel `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (transactionModel) TableName() string { return "transactions" }

// Migrate creates or updates the ledger tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&userModel{}, &holdingModel{}, &transactionModel{}); err != nil {
		return fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}
	return nil
}

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Cash:         m.Cash,
		CreatedAt:    m.CreatedAt,
	}
}

func newHoldingModel(h *domain.Holding) *holdingModel {
	return &holdingModel{
		UserID:     h.UserID,
		Symbol:     h.Symbol,
		Name:       h.Name,
		Shares:     h.Shares,
		Price:      h.Price,
		AvgCost:    h.AvgCost,
		TotalValue: h.TotalValue,
		UpdatedAt:  h.UpdatedAt.UTC(),
	}
}

func (m *holdingModel) toDomain() *domain.Holding {
	return &domain.Holding{
		UserID:     m.UserID,
		Symbol:     m.Symbol,
		Name:       m.Name,
		Shares:     m.Shares,
		Price:      m.Price,
		AvgCost:    m.AvgCost,
		TotalValue: m.TotalValue,
		UpdatedAt:  m.UpdatedAt,
	}
}

func (m *transactionModel) toDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:         m.ID,
		UserID:     m.UserID,
		Symbol:     m.Symbol,
		Shares:     m.Shares,
		Price:      m.Price,
		ExecutedAt: m.ExecutedAt,
	}
}
