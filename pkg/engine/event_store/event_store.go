package eventstore

import "github.com/joripage/matching-core/pkg/engine/model"

// EventStore is the engine's append-only journal of order events, kept in
// arrival order per symbol so a book can be rebuilt or audited after the fact.
type EventStore interface {
	AddEvent(ev *model.OrderEvent)
	Events(symbol string) []*model.OrderEvent
	OrderEvents(symbol string, exchangeOrderID int64) []*model.OrderEvent

	// client order id bookkeeping for duplicate detection and lookups
	ExchangeOrderID(clientID int64, clientOrderID string) (int64, bool)
	Len() int
}
