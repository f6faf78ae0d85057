package model

import (
	"fmt"
	"time"
)

type OrderEventType string

const (
	EventTypeAccepted   OrderEventType = "Accepted"
	EventTypeRested     OrderEventType = "Rested"
	EventTypeReduced    OrderEventType = "Reduced"
	EventTypeExecuted   OrderEventType = "Executed"
	EventTypeCanceled   OrderEventType = "Canceled"
	EventTypeRejected   OrderEventType = "Rejected"
	EventTypeTerminated OrderEventType = "Terminated"
)

// OrderEvent is one entry of the append-only event journal. EventID is unique
// per (order, sequence) so replays and at-least-once consumers deduplicate on
// insert.
type OrderEvent struct {
	EventID         string         `gorm:"column:event_id;primaryKey" json:"event_id"`
	Sequence        uint64         `gorm:"column:sequence" json:"sequence"`
	Symbol          string         `gorm:"column:symbol;index" json:"symbol"`
	ExchangeOrderID int64          `gorm:"column:exchange_order_id;index" json:"exchange_order_id"`
	ClientID        int64          `gorm:"column:client_id" json:"client_id"`
	ClientOrderID   string         `gorm:"column:client_order_id;index" json:"client_order_id"`
	EventType       OrderEventType `gorm:"column:event_type" json:"event_type"`

	Side        OrderSide        `gorm:"column:side" json:"side"`
	Type        OrderType        `gorm:"column:type" json:"type"`
	TimeInForce OrderTimeInForce `gorm:"column:time_in_force" json:"time_in_force"`

	// execution details, zero unless EventType is Executed
	ExecuteSide  string  `gorm:"column:execute_side" json:"execute_side,omitempty"`
	ExecuteSize  int64   `gorm:"column:execute_size" json:"execute_size,omitempty"`
	ExecutePrice float64 `gorm:"column:execute_price" json:"execute_price,omitempty"`
	ExecutionID  int64   `gorm:"column:execution_id" json:"execution_id,omitempty"`
	MatchID      int64   `gorm:"column:match_id" json:"match_id,omitempty"`

	Reason       string `gorm:"column:reason" json:"reason,omitempty"`
	NewTotalSize int64  `gorm:"column:new_total_size" json:"new_total_size,omitempty"`

	Price        float64   `gorm:"column:price" json:"price"`
	OpenSize     int64     `gorm:"column:open_size" json:"open_size"`
	ExecutedSize int64     `gorm:"column:executed_size" json:"executed_size"`
	CanceledSize int64     `gorm:"column:canceled_size" json:"canceled_size"`
	BookTime     int64     `gorm:"column:book_time" json:"book_time"`
	Timestamp    time.Time `gorm:"column:timestamp" json:"timestamp"`
}

func (OrderEvent) TableName() string {
	return "order_events"
}

func NewEventID(symbol string, exchangeOrderID int64, seq uint64) string {
	return fmt.Sprintf("%s-%d-%d", symbol, exchangeOrderID, seq)
}
