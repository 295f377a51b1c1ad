package domain

import "context"

// TradePublisher announces committed transactions to downstream consumers
type TradePublisher interface {
	PublishTrade(ctx context.Context, tx *Transaction) error
}
