package model

import "github.com/shopspring/decimal"

// SubmitOrder is the inbound new-order request as gateways hand it over,
// prices and quantities still in decimal form.
type SubmitOrder struct {
	Symbol        string
	ClientID      int64
	ClientOrderID string
	Side          OrderSide
	Type          OrderType
	TimeInForce   OrderTimeInForce
	Price         decimal.Decimal
	Quantity      decimal.Decimal
}

type CancelOrder struct {
	Symbol          string
	ClientID        int64
	ExchangeOrderID int64
}

// ReduceOrder lowers the total quantity of a resting order. Reducing to or
// below the executed quantity cancels the order.
type ReduceOrder struct {
	Symbol          string
	ClientID        int64
	ExchangeOrderID int64
	NewQuantity     decimal.Decimal
}
