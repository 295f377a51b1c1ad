package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"finance/internal/domain"
)

// TradeEvent is the message value published for every committed transaction
type TradeEvent struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Symbol     string    `json:"symbol"`
	Side       string    `json:"side"`
	Shares     int64     `json:"shares"`
	Price      string    `json:"price"`
	Amount     string    `json:"amount"`
	ExecutedAt time.Time `json:"executed_at"`
}

// Config holds producer settings
type Config struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
	MaxAttempts  int
	WriteTimeout time.Duration
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher writes trade events to a Kafka topic, keyed by user id so a user's trades stay ordered
type Publisher struct {
	writer messageWriter
}

// NewPublisher creates a Publisher for the configured brokers
func NewPublisher(cfg Config) *Publisher {
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 50 * time.Millisecond
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}

	return &Publisher{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafkago.Hash{},
			BatchTimeout: cfg.BatchTimeout,
			MaxAttempts:  cfg.MaxAttempts,
			WriteTimeout: cfg.WriteTimeout,
			RequiredAcks: kafkago.RequireOne,
		},
	}
}

// PublishTrade sends one transaction
func (p *Publisher) PublishTrade(ctx context.Context, tx *domain.Transaction) error {
	value, err := json.Marshal(NewTradeEvent(tx))
	if err != nil {
		return fmt.Errorf("failed to marshal trade event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(tx.UserID.String()),
		Value: value,
		Time:  tx.ExecutedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to publish trade %s: %w", tx.ID, err)
	}
	return nil
}

// Close flushes pending messages
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NewTradeEvent converts a transaction to its wire form
func NewTradeEvent(tx *domain.Transaction) TradeEvent {
	side := "sell"
	if tx.IsBuy() {
		side = "buy"
	}

	return TradeEvent{
		ID:         tx.ID.String(),
		UserID:     tx.UserID.String(),
		Symbol:     tx.Symbol,
		Side:       side,
		Shares:     tx.Shares,
		Price:      tx.Price.String(),
		Amount:     tx.Amount().String(),
		ExecutedAt: tx.ExecutedAt,
	}
}

// NoopPublisher drops events. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishTrade(context.Context, *domain.Transaction) error { return nil }

func (NoopPublisher) Close() error { return nil }
