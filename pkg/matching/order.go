package matching

import (
	"fmt"

	"github.com/joripage/matching-core/pkg/fixedpoint"
)

// ClientOrderIDMaxLength bounds the client order id text carried on an order.
const ClientOrderIDMaxLength = 64

// Order is the lifecycle state machine for a single order. It is created from
// the book's pool, accepted, optionally rested, reduced and executed any
// number of times, and ends with exactly one terminal event (full execution,
// cancel or reject), after which its listeners are detached and the instance
// goes back to the pool.
//
// Invariant: originalSize == openSize + canceledSize + executedSize, always.
type Order struct {
	listeners []OrderListener

	side         Side
	originalSize int64
	totalSize    int64
	executedSize int64

	priceLevel *PriceLevel

	clientID      int64
	clientOrderID string

	price int64

	acceptTime  int64
	restTime    int64
	reduceTime  int64
	executeTime int64
	cancelTime  int64
	rejectTime  int64

	id       int64
	security string
	tif      TimeInForce
	typ      Type

	next *Order
	prev *Order

	resting bool
}

func (o *Order) init(clientID int64, clientOrderID string, exchangeOrderID int64, security string, side Side, size, price int64, typ Type, tif TimeInForce) {
	if len(clientOrderID) > ClientOrderIDMaxLength {
		clientOrderID = clientOrderID[:ClientOrderIDMaxLength]
	}

	o.clientID = clientID
	o.clientOrderID = clientOrderID
	o.side = side
	o.typ = typ
	o.originalSize = size
	o.totalSize = size
	o.executedSize = 0
	o.price = price
	o.security = security
	o.id = exchangeOrderID
	o.tif = tif

	o.acceptTime = -1
	o.restTime = -1
	o.reduceTime = -1
	o.executeTime = -1
	o.cancelTime = -1
	o.rejectTime = -1

	o.priceLevel = nil
	o.resting = false
	o.listeners = o.listeners[:0]
}

func (o *Order) Side() Side               { return o.side }
func (o *Order) OtherSide() Side          { return o.side.Other() }
func (o *Order) Type() Type               { return o.typ }
func (o *Order) TimeInForce() TimeInForce { return o.tif }
func (o *Order) Security() string         { return o.security }
func (o *Order) ClientID() int64          { return o.clientID }
func (o *Order) ClientOrderID() string    { return o.clientOrderID }
func (o *Order) ID() int64                { return o.id }
func (o *Order) ExchangeOrderID() int64   { return o.id }

func (o *Order) Price() int64          { return o.price }
func (o *Order) PriceAsFloat() float64 { return fixedpoint.ToDouble(o.price) }
func (o *Order) OriginalSize() int64   { return o.originalSize }
func (o *Order) TotalSize() int64      { return o.totalSize }
func (o *Order) ExecutedSize() int64   { return o.executedSize }
func (o *Order) OpenSize() int64       { return o.totalSize - o.executedSize }

func (o *Order) CanceledSize() int64 {
	// originalSize = openSize + canceledSize + executedSize
	return o.originalSize - o.OpenSize() - o.executedSize
}

func (o *Order) AcceptTime() int64  { return o.acceptTime }
func (o *Order) RestTime() int64    { return o.restTime }
func (o *Order) ReduceTime() int64  { return o.reduceTime }
func (o *Order) ExecuteTime() int64 { return o.executeTime }
func (o *Order) CancelTime() int64  { return o.cancelTime }
func (o *Order) RejectTime() int64  { return o.rejectTime }

func (o *Order) IsTerminal() bool { return o.OpenSize() == 0 }
func (o *Order) IsAccepted() bool { return o.id > 0 }
func (o *Order) IsResting() bool  { return o.resting }
func (o *Order) IsLimit() bool    { return o.typ == LIMIT }
func (o *Order) IsMarket() bool   { return o.typ == MARKET }
func (o *Order) IsIoC() bool      { return o.tif == IOC }
func (o *Order) IsDay() bool      { return o.tif == DAY }
func (o *Order) IsGTC() bool      { return o.tif == GTC }

// PriceLevel returns the level this order currently rests on, or nil. The
// back-reference is owned by the book and the level, never by the order.
func (o *Order) PriceLevel() *PriceLevel { return o.priceLevel }

func (o *Order) setPriceLevel(pl *PriceLevel) { o.priceLevel = pl }

// Next returns the next order in FIFO arrival order at the same price level.
func (o *Order) Next() *Order { return o.next }

// AddListener registers a listener. Listeners are invoked from last to first
// so the book listener, registered first, always fires last.
func (o *Order) AddListener(l OrderListener) {
	o.listeners = append(o.listeners, l)
}

// Accept assigns the exchange order id and fires onOrderAccepted.
func (o *Order) Accept(time, id int64) {
	o.id = id
	o.acceptTime = time

	for i := len(o.listeners) - 1; i >= 0; i-- {
		o.listeners[i].OnOrderAccepted(time, o)
	}
}

// Rest marks the order resting and fires onOrderRested with the open size at
// this instant and the limit price.
func (o *Order) Rest(time int64) {
	o.resting = true
	o.restTime = time

	for i := len(o.listeners) - 1; i >= 0; i-- {
		o.listeners[i].OnOrderRested(time, o, o.OpenSize(), o.price)
	}
}

// Reject zeroes the order out and fires onOrderRejected. Terminal; no further
// events are possible.
func (o *Order) Reject(time int64, reason RejectReason) {
	o.totalSize = 0
	o.executedSize = 0
	o.rejectTime = time

	for i := len(o.listeners) - 1; i >= 0; i-- {
		o.listeners[i].OnOrderRejected(time, o, reason)
	}

	o.listeners = o.listeners[:0]
}

// ReduceTo lowers the total size cap to newTotalSize. Reducing to or below
// what is already executed is a full user cancel; increasing is clamped to
// the current total.
func (o *Order) ReduceTo(time, newTotalSize int64) {
	if newTotalSize <= o.executedSize {
		o.Cancel(time, CancelReasonUser)
		return
	}

	if newTotalSize > o.totalSize {
		newTotalSize = o.totalSize
	}

	o.totalSize = newTotalSize
	o.reduceTime = time

	for i := len(o.listeners) - 1; i >= 0; i-- {
		o.listeners[i].OnOrderReduced(time, o, o.totalSize)
	}
}

// CancelSize cancels part of the open size. Canceling the whole open size or
// more delegates to a full cancel; otherwise the order shrinks and the event
// surfaces as a reduction, not a cancellation.
func (o *Order) CancelSize(time, sizeToCancel int64, reason CancelReason) {
	if sizeToCancel >= o.OpenSize() {
		o.Cancel(time, reason)
		return
	}

	newSize := o.OpenSize() - sizeToCancel + o.executedSize

	o.totalSize = newSize
	o.reduceTime = time

	for i := len(o.listeners) - 1; i >= 0; i-- {
		o.listeners[i].OnOrderReduced(time, o, newSize)
	}
}

// Cancel cancels the whole open size. Terminal.
func (o *Order) Cancel(time int64, reason CancelReason) {
	o.totalSize = o.executedSize
	o.cancelTime = time

	for i := len(o.listeners) - 1; i >= 0; i-- {
		o.listeners[i].OnOrderCanceled(time, o, reason)
	}

	o.terminate(time)
}

// Execute fills up to sizeToExecute (clamped to the open size) at
// priceExecuted and fires onOrderExecuted. If the order is now fully executed
// it terminates.
func (o *Order) Execute(time int64, executeSide ExecuteSide, sizeToExecute, priceExecuted, executeID, matchID int64) {
	if sizeToExecute > o.OpenSize() {
		sizeToExecute = o.OpenSize()
	}

	o.executedSize += sizeToExecute
	o.executeTime = time

	for i := len(o.listeners) - 1; i >= 0; i-- {
		o.listeners[i].OnOrderExecuted(time, o, executeSide, sizeToExecute, priceExecuted, executeID, matchID)
	}

	if o.IsTerminal() {
		o.terminate(time)
	}
}

func (o *Order) terminate(time int64) {
	for i := len(o.listeners) - 1; i >= 0; i-- {
		o.listeners[i].OnOrderTerminated(time, o)
	}

	o.listeners = o.listeners[:0]
}

func (o *Order) String() string {
	s := fmt.Sprintf("Order[id=%d clientId=%d clientOrderId=%s side=%v security=%s originalSize=%d openSize=%d executedSize=%d canceledSize=%d",
		o.id, o.clientID, o.clientOrderID, o.side, o.security, o.originalSize, o.OpenSize(), o.executedSize, o.CanceledSize())
	if o.typ != MARKET {
		s += fmt.Sprintf(" price=%v type=%v tif=%v]", fixedpoint.ToDouble(o.price), o.typ, o.tif)
	} else {
		s += fmt.Sprintf(" type=%v]", o.typ)
	}
	return s
}
