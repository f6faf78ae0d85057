package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/joripage/matching-core/pkg/fixedpoint"
	"github.com/joripage/matching-core/pkg/matching"
)

type OrderStatus string

const (
	OrderStatusNew             OrderStatus = "New"
	OrderStatusPartiallyFilled OrderStatus = "PartiallyFilled"
	OrderStatusFilled          OrderStatus = "Filled"
	OrderStatusCanceled        OrderStatus = "Canceled"
	OrderStatusRejected        OrderStatus = "Rejected"
	OrderStatusExpired         OrderStatus = "Expired"
)

type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

type OrderType string

const (
	OrderTypeLimit  OrderType = "LIMIT"
	OrderTypeMarket OrderType = "MARKET"
)

type OrderTimeInForce string

const (
	OrderTimeInForceGTC OrderTimeInForce = "GTC"
	OrderTimeInForceIOC OrderTimeInForce = "IOC"
	OrderTimeInForceDAY OrderTimeInForce = "DAY"
)

// Order is the persisted projection of a book order, one row per order,
// updated as events arrive.
type Order struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	ExchangeOrderID int64  `gorm:"column:exchange_order_id;uniqueIndex:idx_orders_symbol_exchange_id,priority:2"`
	Symbol          string `gorm:"column:symbol;uniqueIndex:idx_orders_symbol_exchange_id,priority:1"`
	ClientID        int64  `gorm:"column:client_id;index"`
	ClientOrderID   string `gorm:"column:client_order_id;index"`

	Side        OrderSide        `gorm:"column:side"`
	Type        OrderType        `gorm:"column:type"`
	TimeInForce OrderTimeInForce `gorm:"column:time_in_force"`

	Price        decimal.Decimal `gorm:"column:price;type:numeric(20,8)"`
	Quantity     decimal.Decimal `gorm:"column:quantity;type:numeric(20,8)"`
	CumQuantity  decimal.Decimal `gorm:"column:cum_quantity;type:numeric(20,8)"`
	OpenQuantity decimal.Decimal `gorm:"column:open_quantity;type:numeric(20,8)"`
	LastQuantity decimal.Decimal `gorm:"column:last_quantity;type:numeric(20,8)"`
	LastPrice    decimal.Decimal `gorm:"column:last_price;type:numeric(20,8)"`

	Status       OrderStatus `gorm:"column:status"`
	TransactTime time.Time   `gorm:"column:transact_time"`
}

func (Order) TableName() string {
	return "orders"
}

func SideOf(s matching.Side) OrderSide {
	if s == matching.BUY {
		return OrderSideBuy
	}
	return OrderSideSell
}

func TypeOf(t matching.Type) OrderType {
	if t == matching.MARKET {
		return OrderTypeMarket
	}
	return OrderTypeLimit
}

func TimeInForceOf(tif matching.TimeInForce) OrderTimeInForce {
	switch tif {
	case matching.IOC:
		return OrderTimeInForceIOC
	case matching.DAY:
		return OrderTimeInForceDAY
	default:
		return OrderTimeInForceGTC
	}
}

// StatusOf derives the persisted status from the live order state.
func StatusOf(o *matching.Order) OrderStatus {
	switch {
	case o.RejectTime() >= 0:
		return OrderStatusRejected
	case o.CancelTime() >= 0:
		return OrderStatusCanceled
	case o.ExecutedSize() == 0:
		return OrderStatusNew
	case o.IsTerminal():
		return OrderStatusFilled
	default:
		return OrderStatusPartiallyFilled
	}
}

// OrderFrom snapshots a live book order into its persisted projection.
func OrderFrom(o *matching.Order) *Order {
	return &Order{
		ExchangeOrderID: o.ID(),
		Symbol:          o.Security(),
		ClientID:        o.ClientID(),
		ClientOrderID:   o.ClientOrderID(),
		Side:            SideOf(o.Side()),
		Type:            TypeOf(o.Type()),
		TimeInForce:     TimeInForceOf(o.TimeInForce()),
		Price:           fixedpoint.ToDecimal(o.Price()),
		Quantity:        decimal.NewFromInt(o.OriginalSize()),
		CumQuantity:     decimal.NewFromInt(o.ExecutedSize()),
		OpenQuantity:    decimal.NewFromInt(o.OpenSize()),
		Status:          StatusOf(o),
		TransactTime:    time.Now(),
	}
}
