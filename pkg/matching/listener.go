package matching

// OrderListener observes every state transition of a single order. The order
// invokes its listeners in reverse registration order: the price level
// registers itself when the order is added to it, after the book registered
// itself at creation time, so the level always self-cleans before the book
// callback observes the final state.
type OrderListener interface {
	OnOrderAccepted(time int64, order *Order)
	OnOrderRested(time int64, order *Order, restSize, restPrice int64)
	OnOrderReduced(time int64, order *Order, newTotalSize int64)
	OnOrderExecuted(time int64, order *Order, executeSide ExecuteSide, executeSize, executePrice, executeID, matchID int64)
	OnOrderCanceled(time int64, order *Order, reason CancelReason)
	OnOrderRejected(time int64, order *Order, reason RejectReason)
	OnOrderTerminated(time int64, order *Order)
}

// BookListener receives the book-level view of every order event. Unlike
// OrderListener fan-out, book listeners fire in registration order.
type BookListener interface {
	OnOrderAccepted(book *OrderBook, time int64, order *Order)
	OnOrderRested(book *OrderBook, time int64, order *Order, restSize, restPrice int64)
	OnOrderReduced(book *OrderBook, time int64, order *Order, newTotalSize int64)
	OnOrderExecuted(book *OrderBook, time int64, order *Order, executeSide ExecuteSide, executeSize, executePrice, executeID, matchID int64)
	OnOrderCanceled(book *OrderBook, time int64, order *Order, reason CancelReason)
	OnOrderRejected(book *OrderBook, time int64, order *Order, reason RejectReason)
	OnOrderTerminated(book *OrderBook, time int64, order *Order)
}

// BookListenerAdapter is a no-op BookListener meant to be embedded so
// implementations only override the callbacks they care about.
type BookListenerAdapter struct{}

func (BookListenerAdapter) OnOrderAccepted(book *OrderBook, time int64, order *Order) {}
func (BookListenerAdapter) OnOrderRested(book *OrderBook, time int64, order *Order, restSize, restPrice int64) {
}
func (BookListenerAdapter) OnOrderReduced(book *OrderBook, time int64, order *Order, newTotalSize int64) {
}
func (BookListenerAdapter) OnOrderExecuted(book *OrderBook, time int64, order *Order, executeSide ExecuteSide, executeSize, executePrice, executeID, matchID int64) {
}
func (BookListenerAdapter) OnOrderCanceled(book *OrderBook, time int64, order *Order, reason CancelReason) {
}
func (BookListenerAdapter) OnOrderRejected(book *OrderBook, time int64, order *Order, reason RejectReason) {
}
func (BookListenerAdapter) OnOrderTerminated(book *OrderBook, time int64, order *Order) {}
