package matching

import "math"

const defaultPoolCapacity = 1024

// OrderValidator is the pluggable validation hook, called once per new order
// before acceptance. Returning ok=true rejects the order with the given
// reason.
type OrderValidator func(order *Order) (reason RejectReason, ok bool)

// Option configures an OrderBook at construction time.
type Option func(*OrderBook)

// WithTimestamper injects the time source used for every timestamped
// transition.
func WithTimestamper(ts Timestamper) Option {
	return func(ob *OrderBook) { ob.timestamper = ts }
}

// WithValidator injects the order validation hook.
func WithValidator(v OrderValidator) Option {
	return func(ob *OrderBook) { ob.validate = v }
}

// WithListener registers a book listener at construction time.
func WithListener(l BookListener) Option {
	return func(ob *OrderBook) { ob.AddListener(l) }
}

// WithAllowTradeToSelf controls whether an incoming order may execute against
// resting interest of the same client id. Defaults to true.
func WithAllowTradeToSelf(allow bool) Option {
	return func(ob *OrderBook) { ob.allowTradeToSelf = allow }
}

// OrderBook is a single-instrument price-time-priority book. It owns two
// strictly price-ordered ladders of price levels, the order-id index, and the
// matching algorithm. It registers itself as a listener on every order it
// creates and translates order-level events into book-level events for its
// external listeners.
//
// A book must only ever be driven by one goroutine; all cascading visible in
// the design is synchronous re-entrant callbacks within one call stack.
type OrderBook struct {
	security string

	timestamper      Timestamper
	validate         OrderValidator
	allowTradeToSelf bool

	orderPool *objectPool[Order]
	levelPool *objectPool[PriceLevel]

	execID  int64
	matchID int64

	// ladders: head is the best level per side, tail the worst.
	head   [2]*PriceLevel
	tail   [2]*PriceLevel
	levels [2]int

	orders map[int64]*Order

	lastExecutedPrice int64

	listeners []BookListener

	idScratch []int64
}

// NewOrderBook creates an empty book for one security.
func NewOrderBook(security string, opts ...Option) *OrderBook {
	ob := &OrderBook{
		security:          security,
		timestamper:       SystemTimestamper{},
		allowTradeToSelf:  true,
		orderPool:         newObjectPool[Order](defaultPoolCapacity),
		levelPool:         newObjectPool[PriceLevel](defaultPoolCapacity),
		orders:            make(map[int64]*Order),
		lastExecutedPrice: math.MaxInt64,
	}
	for _, opt := range opts {
		opt(ob)
	}
	return ob
}

// NewOrderBookFrom creates an empty book carrying over the security, time
// source, self-trade policy and listeners of an existing book. Used to roll a
// book into a new trading session.
func NewOrderBookFrom(other *OrderBook) *OrderBook {
	ob := NewOrderBook(other.security,
		WithTimestamper(other.timestamper),
		WithAllowTradeToSelf(other.allowTradeToSelf))
	ob.validate = other.validate
	ob.listeners = append(ob.listeners, other.listeners...)
	return ob
}

// AddListener registers an external book listener. Book listeners fire in
// registration order.
func (ob *OrderBook) AddListener(l BookListener) {
	for _, existing := range ob.listeners {
		if existing == l {
			return
		}
	}
	ob.listeners = append(ob.listeners, l)
}

func (ob *OrderBook) Security() string          { return ob.security }
func (ob *OrderBook) Timestamper() Timestamper  { return ob.timestamper }
func (ob *OrderBook) AllowTradeToSelf() bool    { return ob.allowTradeToSelf }
func (ob *OrderBook) LastExecutedPrice() int64  { return ob.lastExecutedPrice }
func (ob *OrderBook) NumberOfOrders() int       { return len(ob.orders) }
func (ob *OrderBook) IsEmpty() bool             { return len(ob.orders) == 0 }
func (ob *OrderBook) BidLevels() int            { return ob.levels[BUY.index()] }
func (ob *OrderBook) AskLevels() int            { return ob.levels[SELL.index()] }
func (ob *OrderBook) HasBestBid() bool          { return ob.head[BUY.index()] != nil }
func (ob *OrderBook) HasBestAsk() bool          { return ob.head[SELL.index()] != nil }
func (ob *OrderBook) HasBids() bool             { return ob.HasBestBid() }
func (ob *OrderBook) HasAsks() bool             { return ob.HasBestAsk() }

// GetOrder returns the currently resting or in-flight order with the given
// exchange order id, or nil.
func (ob *OrderBook) GetOrder(id int64) *Order {
	return ob.orders[id]
}

// Head returns the best price level of a side, or nil.
func (ob *OrderBook) Head(side Side) *PriceLevel {
	return ob.head[side.index()]
}

// Tail returns the worst price level of a side, or nil.
func (ob *OrderBook) Tail(side Side) *PriceLevel {
	return ob.tail[side.index()]
}

func (ob *OrderBook) HasTop(side Side) bool {
	return ob.head[side.index()] != nil
}

func (ob *OrderBook) Levels(side Side) int {
	return ob.levels[side.index()]
}

func (ob *OrderBook) BestBidOrder() *Order {
	if !ob.HasBids() {
		return nil
	}
	return ob.head[BUY.index()].head
}

func (ob *OrderBook) BestAskOrder() *Order {
	if !ob.HasAsks() {
		return nil
	}
	return ob.head[SELL.index()].head
}

// BestPrice returns the best price of a side. The side must have depth.
func (ob *OrderBook) BestPrice(side Side) int64 {
	pl := ob.head[side.index()]
	if pl == nil {
		panic("matching: no best price on " + side.String() + " side")
	}
	return pl.price
}

func (ob *OrderBook) BestBidPrice() int64 { return ob.BestPrice(BUY) }
func (ob *OrderBook) BestAskPrice() int64 { return ob.BestPrice(SELL) }

// BestSize returns the aggregate size at the best price of a side. The side
// must have depth.
func (ob *OrderBook) BestSize(side Side) int64 {
	pl := ob.head[side.index()]
	if pl == nil {
		panic("matching: no best size on " + side.String() + " side")
	}
	return pl.Size()
}

func (ob *OrderBook) BestBidSize() int64 { return ob.BestSize(BUY) }
func (ob *OrderBook) BestAskSize() int64 { return ob.BestSize(SELL) }

func (ob *OrderBook) HasSpread() bool {
	return ob.HasBestBid() && ob.HasBestAsk()
}

// Spread returns ask minus bid. Both sides must have depth.
func (ob *OrderBook) Spread() int64 {
	bestBid := ob.head[BUY.index()]
	bestAsk := ob.head[SELL.index()]
	if bestBid == nil || bestAsk == nil {
		panic("matching: spread requires both sides")
	}
	return bestAsk.price - bestBid.price
}

// State derives the book state from the top of book. Never cached.
func (ob *OrderBook) State() State {
	bestBid := ob.head[BUY.index()]
	bestAsk := ob.head[SELL.index()]

	switch {
	case bestBid != nil && bestAsk != nil:
		spread := bestAsk.price - bestBid.price
		if spread == 0 {
			return StateLocked
		}
		if spread < 0 {
			return StateCrossed
		}
		return StateNormal
	case bestBid == nil && bestAsk == nil:
		return StateEmpty
	default:
		return StateOneSided
	}
}

// CreateLimit submits a new limit order. The returned order may already be
// terminal; callers inspect its state rather than an error.
func (ob *OrderBook) CreateLimit(clientID int64, clientOrderID string, exchangeOrderID int64, side Side, size, price int64, tif TimeInForce) *Order {
	return ob.CreateOrder(clientID, clientOrderID, exchangeOrderID, side, size, price, LIMIT, tif)
}

// CreateMarket submits a new market order. Market orders carry no price and
// never rest.
func (ob *OrderBook) CreateMarket(clientID int64, clientOrderID string, exchangeOrderID int64, side Side, size int64) *Order {
	return ob.CreateOrder(clientID, clientOrderID, exchangeOrderID, side, size, 0, MARKET, IOC)
}

// CancelOrder cancels a resting order by exchange order id with reason USER.
// Returns false if the id is unknown.
func (ob *OrderBook) CancelOrder(id int64) bool {
	order := ob.orders[id]
	if order == nil {
		return false
	}
	order.Cancel(ob.timestamper.NanoEpoch(), CancelReasonUser)
	return true
}

// ReduceOrder reduces a resting order's total size by exchange order id.
// Returns false if the id is unknown.
func (ob *OrderBook) ReduceOrder(id, newTotalSize int64) bool {
	order := ob.orders[id]
	if order == nil {
		return false
	}
	order.ReduceTo(ob.timestamper.NanoEpoch(), newTotalSize)
	return true
}

// CreateOrder is the generic entry point gateways use when type and time in
// force come off the wire. A market order carrying a price is rejected with
// BAD_PRICE before the validation hook runs.
func (ob *OrderBook) CreateOrder(clientID int64, clientOrderID string, exchangeOrderID int64, side Side, size, price int64, typ Type, tif TimeInForce) *Order {
	order := ob.orderPool.acquire()
	order.init(clientID, clientOrderID, 0, ob.security, side, size, price, typ, tif)
	order.AddListener(ob)

	if tif == IOC || typ == MARKET {
		return ob.fillOrCancel(order, exchangeOrderID)
	}
	return ob.fillOrRest(order, exchangeOrderID)
}

// fillOrCancel handles market and IOC orders: match what is possible, cancel
// the rest. The book listener callback returns rejected/canceled orders to
// the pool.
func (ob *OrderBook) fillOrCancel(order *Order, exchangeOrderID int64) *Order {
	if order.typ == MARKET && order.price != 0 {
		order.Reject(ob.timestamper.NanoEpoch(), RejectReasonBadPrice)
		return order
	}

	if ob.validate != nil {
		if reason, rejected := ob.validate(order); rejected {
			order.Reject(ob.timestamper.NanoEpoch(), reason)
			return order
		}
	}

	// always accept first...
	order.Accept(ob.timestamper.NanoEpoch(), exchangeOrderID)

	// the reason choice looks at depth as of submission: matching may have
	// consumed the whole opposite side, which is a miss, not a dry book
	hadTop := ob.HasTop(order.OtherSide())

	ob.match(order)

	if !order.IsTerminal() {
		if order.typ == MARKET {
			order.Cancel(ob.timestamper.NanoEpoch(), CancelReasonNoLiquidity)
		} else {
			reason := CancelReasonMissed
			if !hadTop {
				reason = CancelReasonNoLiquidity
			}
			order.Cancel(ob.timestamper.NanoEpoch(), reason)
		}
	}

	return order
}

// fillOrRest handles day and GTC limit orders: match what is possible, rest
// the remainder unless it would cross the client's own resting interest.
func (ob *OrderBook) fillOrRest(order *Order, exchangeOrderID int64) *Order {
	if ob.validate != nil {
		if reason, rejected := ob.validate(order); rejected {
			order.Reject(ob.timestamper.NanoEpoch(), reason)
			return order
		}
	}

	// always accept first:
	order.Accept(ob.timestamper.NanoEpoch(), exchangeOrderID)

	ob.match(order)

	if order.IsTerminal() {
		return order
	}

	if !ob.allowTradeToSelf && ob.HasTop(order.OtherSide()) && order.side.isInside(order.price, ob.BestPrice(order.OtherSide())) {
		// anything still crossing after matching is the client's own interest
		order.Cancel(ob.timestamper.NanoEpoch(), CancelReasonCrossed)
	} else {
		ob.rest(order)
	}

	return order
}

// match crosses the incoming order against the opposite ladder under
// price-time priority. Trades always execute at the resting order's price;
// the maker is notified first, then the taker, sharing one match id.
// Same-client resting orders are skipped, not blocking, when self-trading is
// disallowed.
func (ob *OrderBook) match(order *Order) {
	index := order.side.Other().index() // bid hits ask and vice-versa

outer:
	for pl := ob.head[index]; pl != nil; pl = pl.next {

		if order.typ != MARKET && order.side.isOutside(order.price, pl.price) {
			break // never trade through the limit
		}

		for o := pl.head; o != nil; o = o.next {

			if !ob.allowTradeToSelf && o.clientID == order.clientID {
				continue
			}

			sizeToExecute := min(order.OpenSize(), o.OpenSize())

			priceExecuted := o.price // always price improve the taker

			ts := ob.timestamper.NanoEpoch()

			ob.lastExecutedPrice = priceExecuted

			ob.execID++
			makerExecID := ob.execID
			ob.execID++
			takerExecID := ob.execID
			ob.matchID++
			matchID := ob.matchID

			o.Execute(ts, MAKER, sizeToExecute, priceExecuted, makerExecID, matchID)
			order.Execute(ts, TAKER, sizeToExecute, priceExecuted, takerExecID, matchID)

			if order.IsTerminal() {
				break outer
			}
		}
	}
}

// findPriceLevel returns the level for this exact price, splicing a fresh one
// into the ladder immediately before the first strictly-worse level if none
// exists. Linear scan from the best price inward; the working set of a
// matching engine keeps this cheap.
func (ob *OrderBook) findPriceLevel(side Side, price int64) *PriceLevel {
	index := side.index()

	var found *PriceLevel
	for pl := ob.head[index]; pl != nil; pl = pl.next {
		if side.isInside(price, pl.price) {
			found = pl
			break
		}
	}

	if found != nil && found.price == price {
		return found
	}

	level := ob.levelPool.acquire()
	level.init(ob.security, side, price)
	ob.levels[index]++

	switch {
	case found == nil:
		// worse than everything: append at the tail
		if ob.head[index] == nil {
			ob.head[index] = level
			ob.tail[index] = level
		} else {
			ob.tail[index].next = level
			level.prev = ob.tail[index]
			ob.tail[index] = level
		}
	default:
		// splice in right before the first strictly-worse level
		if found.prev != nil {
			found.prev.next = level
			level.prev = found.prev
		}
		level.next = found
		found.prev = level
		if ob.head[index] == found {
			ob.head[index] = level
		}
	}

	return level
}

func (ob *OrderBook) rest(order *Order) {
	level := ob.findPriceLevel(order.side, order.price)

	order.setPriceLevel(level)
	level.addOrder(order)
	ob.orders[order.id] = order

	order.Rest(ob.timestamper.NanoEpoch())
}

// removeOrder detaches a terminal order from its level, pooling the level the
// instant it empties, removes the order from the id index and recycles it.
func (ob *OrderBook) removeOrder(order *Order) {
	level := order.priceLevel

	if level != nil && level.IsEmpty() {
		if level.prev != nil {
			level.prev.next = level.next
		}
		if level.next != nil {
			level.next.prev = level.prev
		}

		index := order.side.index()
		if ob.tail[index] == level {
			ob.tail[index] = level.prev
		}
		if ob.head[index] == level {
			ob.head[index] = level.next
		}
		ob.levels[index]--

		ob.levelPool.release(level)
	}

	delete(ob.orders, order.id)
	ob.orderPool.release(order)
}

// Expire cancels every Day order with reason EXPIRED. The id set is
// snapshotted first because each cancel cascades back into the index.
func (ob *OrderBook) Expire() {
	ob.idScratch = ob.idScratch[:0]
	for id := range ob.orders {
		ob.idScratch = append(ob.idScratch, id)
	}

	for _, id := range ob.idScratch {
		order := ob.orders[id]
		if order == nil || order.tif != DAY {
			continue
		}
		delete(ob.orders, id)
		order.Cancel(ob.timestamper.NanoEpoch(), CancelReasonExpired)
	}
}

// Purge cancels every order unconditionally with reason PURGED.
func (ob *OrderBook) Purge() {
	ob.idScratch = ob.idScratch[:0]
	for id := range ob.orders {
		ob.idScratch = append(ob.idScratch, id)
	}

	for _, id := range ob.idScratch {
		order := ob.orders[id]
		if order == nil {
			continue
		}
		delete(ob.orders, id)
		order.Cancel(ob.timestamper.NanoEpoch(), CancelReasonPurged)
	}
}

// RollTo copies every GTC order, by side and ladder order, into newBook as a
// fresh limit order with sequentially assigned exchange ids starting at 1,
// canceling the originals with reason ROLLED.
func (ob *OrderBook) RollTo(newBook *OrderBook) int64 {
	return ob.RollToFrom(newBook, 1)
}

// RollToFrom is RollTo with a caller-chosen first exchange order id; it
// returns the next unused id for chaining across books.
func (ob *OrderBook) RollToFrom(newBook *OrderBook, firstExchangeOrderID int64) int64 {
	for _, side := range [2]Side{BUY, SELL} {
		for pl := ob.head[side.index()]; pl != nil; pl = pl.next {
			for o := pl.head; o != nil; o = o.next {
				if o.tif != GTC {
					continue
				}
				newBook.CreateLimit(o.clientID, o.clientOrderID, firstExchangeOrderID, o.side, o.OpenSize(), o.price, GTC)
				firstExchangeOrderID++
				o.Cancel(ob.timestamper.NanoEpoch(), CancelReasonRolled)
			}
		}
	}
	return firstExchangeOrderID
}

// OrderListener implementation: the book is registered on every order it
// creates and re-notifies its own listeners after doing its bookkeeping. The
// price level, registered later, has already fired by the time these run.

func (ob *OrderBook) OnOrderAccepted(time int64, order *Order) {
	for _, l := range ob.listeners {
		l.OnOrderAccepted(ob, time, order)
	}
}

func (ob *OrderBook) OnOrderRested(time int64, order *Order, restSize, restPrice int64) {
	for _, l := range ob.listeners {
		l.OnOrderRested(ob, time, order, restSize, restPrice)
	}
}

func (ob *OrderBook) OnOrderReduced(time int64, order *Order, newTotalSize int64) {
	for _, l := range ob.listeners {
		l.OnOrderReduced(ob, time, order, newTotalSize)
	}
}

func (ob *OrderBook) OnOrderExecuted(time int64, order *Order, executeSide ExecuteSide, executeSize, executePrice, executeID, matchID int64) {
	if order.IsTerminal() {
		ob.removeOrder(order)
	}
	for _, l := range ob.listeners {
		l.OnOrderExecuted(ob, time, order, executeSide, executeSize, executePrice, executeID, matchID)
	}
}

func (ob *OrderBook) OnOrderCanceled(time int64, order *Order, reason CancelReason) {
	ob.removeOrder(order)
	for _, l := range ob.listeners {
		l.OnOrderCanceled(ob, time, order, reason)
	}
}

func (ob *OrderBook) OnOrderRejected(time int64, order *Order, reason RejectReason) {
	ob.removeOrder(order)
	for _, l := range ob.listeners {
		l.OnOrderRejected(ob, time, order, reason)
	}
}

func (ob *OrderBook) OnOrderTerminated(time int64, order *Order) {
	for _, l := range ob.listeners {
		l.OnOrderTerminated(ob, time, order)
	}
}
