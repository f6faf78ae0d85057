package matching

import "go.uber.org/zap"

// BookLogger is a BookListener that logs every book event through a zap
// sugared logger. Handy when developing against a live book or replaying a
// captured session.
type BookLogger struct {
	log *zap.SugaredLogger
}

func NewBookLogger(log *zap.SugaredLogger) *BookLogger {
	return &BookLogger{log: log}
}

func (bl *BookLogger) OnOrderAccepted(book *OrderBook, time int64, order *Order) {
	bl.log.Infow("order accepted", "security", book.Security(), "time", time, "order", order.String())
}

func (bl *BookLogger) OnOrderRested(book *OrderBook, time int64, order *Order, restSize, restPrice int64) {
	bl.log.Infow("order rested", "security", book.Security(), "time", time,
		"restSize", restSize, "restPrice", restPrice, "order", order.String())
}

func (bl *BookLogger) OnOrderReduced(book *OrderBook, time int64, order *Order, newTotalSize int64) {
	bl.log.Infow("order reduced", "security", book.Security(), "time", time,
		"newTotalSize", newTotalSize, "order", order.String())
}

func (bl *BookLogger) OnOrderExecuted(book *OrderBook, time int64, order *Order, executeSide ExecuteSide, executeSize, executePrice, executeID, matchID int64) {
	bl.log.Infow("order executed", "security", book.Security(), "time", time,
		"executeSide", executeSide.String(), "executeSize", executeSize, "executePrice", executePrice,
		"executeID", executeID, "matchID", matchID, "order", order.String())
}

func (bl *BookLogger) OnOrderCanceled(book *OrderBook, time int64, order *Order, reason CancelReason) {
	bl.log.Infow("order canceled", "security", book.Security(), "time", time,
		"reason", reason.String(), "order", order.String())
}

func (bl *BookLogger) OnOrderRejected(book *OrderBook, time int64, order *Order, reason RejectReason) {
	bl.log.Infow("order rejected", "security", book.Security(), "time", time,
		"reason", reason.String(), "order", order.String())
}

func (bl *BookLogger) OnOrderTerminated(book *OrderBook, time int64, order *Order) {
	bl.log.Infow("order terminated", "security", book.Security(), "time", time, "order", order.String())
}
