package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/joripage/go_util/pkg/shardqueue"
	"go.uber.org/zap"

	eventstore "github.com/joripage/matching-core/pkg/engine/event_store"
	"github.com/joripage/matching-core/pkg/engine/model"
	"github.com/joripage/matching-core/pkg/fixedpoint"
	"github.com/joripage/matching-core/pkg/matching"
	"github.com/joripage/matching-core/pkg/quotecache"
)

// Publisher pushes journaled events to downstream consumers.
type Publisher interface {
	PublishEvent(ctx context.Context, ev *model.OrderEvent) error
}

type Config struct {
	Symbols          []string
	AllowTradeToSelf bool
	Validator        matching.OrderValidator

	// inbound commands are sharded by symbol so each book stays
	// single-threaded while symbols run in parallel
	EnableShardQueue bool
	NumShards        int
	QueueSize        int

	MaxJournalPerSymbol int
}

// Engine owns one order book per symbol and serializes all access to them.
// It observes every book, journals the resulting events, hands them to the
// publisher and refreshes the top-of-book cache.
type Engine struct {
	cfg Config

	books map[string]*matching.OrderBook

	// populated once at construction; shard goroutines mutate only the
	// pointed-to counter of the symbol they own
	nextOrderID map[string]*int64

	eventstore eventstore.EventStore
	publisher  Publisher
	quotes     *quotecache.Cache

	shardQueue *shardqueue.Shardqueue

	seq     uint64
	started bool
	stopped bool
	rolling bool

	log *zap.SugaredLogger
}

func NewEngine(cfg Config, opts ...EngineOption) *Engine {
	if cfg.NumShards <= 0 {
		cfg.NumShards = 16
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1_000_000
	}

	e := &Engine{
		cfg:         cfg,
		books:       make(map[string]*matching.OrderBook),
		nextOrderID: make(map[string]*int64),
		eventstore:  eventstore.NewInMemoryEventStore(cfg.MaxJournalPerSymbol),
		log:         zap.S(),
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, symbol := range cfg.Symbols {
		e.books[symbol] = matching.NewOrderBook(symbol,
			matching.WithAllowTradeToSelf(cfg.AllowTradeToSelf),
			matching.WithValidator(e.validateOrder),
			matching.WithListener(e))
		first := int64(1)
		e.nextOrderID[symbol] = &first
	}

	return e
}

type EngineOption func(*Engine)

func WithEventStore(store eventstore.EventStore) EngineOption {
	return func(e *Engine) { e.eventstore = store }
}

func WithPublisher(p Publisher) EngineOption {
	return func(e *Engine) { e.publisher = p }
}

func WithQuoteCache(c *quotecache.Cache) EngineOption {
	return func(e *Engine) { e.quotes = c }
}

func WithLogger(log *zap.SugaredLogger) EngineOption {
	return func(e *Engine) { e.log = log }
}

// Start spins up the shard workers when queueing is enabled. Without the
// queue, commands run inline on the caller's goroutine and the caller owns
// the single-threading guarantee per symbol.
func (e *Engine) Start(ctx context.Context) error {
	if e.cfg.EnableShardQueue {
		e.shardQueue = shardqueue.NewShardQueue(e.cfg.NumShards, e.cfg.QueueSize)
		e.shardQueue.Start(func(msg interface{}) error {
			if err := e.process(msg); err != nil {
				e.log.Warnw("command failed", "err", err)
			}
			return nil
		})
	}
	e.started = true
	return nil
}

func (e *Engine) Stop() {
	e.started = false
	e.stopped = true
}

// Book exposes the live book for a symbol, read-only by convention.
func (e *Engine) Book(symbol string) *matching.OrderBook {
	return e.books[symbol]
}

func (e *Engine) EventStore() eventstore.EventStore {
	return e.eventstore
}

func (e *Engine) SubmitOrder(ctx context.Context, cmd *model.SubmitOrder) error {
	return e.dispatch(cmd.Symbol, cmd)
}

func (e *Engine) CancelOrder(ctx context.Context, cmd *model.CancelOrder) error {
	return e.dispatch(cmd.Symbol, cmd)
}

func (e *Engine) ReduceOrder(ctx context.Context, cmd *model.ReduceOrder) error {
	return e.dispatch(cmd.Symbol, cmd)
}

func (e *Engine) dispatch(symbol string, cmd interface{}) error {
	if e.stopped {
		return ErrEngineStopped
	}
	if !e.started {
		return ErrEngineNotStarted
	}
	if _, ok := e.books[symbol]; !ok {
		return errUnknownSymbol
	}
	if e.shardQueue != nil {
		e.shardQueue.Shard(symbol, cmd)
		return nil
	}
	return e.process(cmd)
}

func (e *Engine) process(msg interface{}) error {
	switch cmd := msg.(type) {
	case *model.SubmitOrder:
		return e.processSubmit(cmd)
	case *model.CancelOrder:
		return e.processCancel(cmd)
	case *model.ReduceOrder:
		return e.processReduce(cmd)
	default:
		return errUnknownCommand
	}
}

// validateOrder guards every book: a reused client order id is rejected
// before the configured risk rules run, so listeners see a journaled
// rejection instead of a silently dropped command.
func (e *Engine) validateOrder(order *matching.Order) (matching.RejectReason, bool) {
	// a session roll re-submits resting orders under their original client
	// order ids, which the journal already knows
	if !e.rolling {
		if _, dup := e.eventstore.ExchangeOrderID(order.ClientID(), order.ClientOrderID()); dup {
			return matching.RejectReasonDuplicateOrderID, true
		}
	}
	if e.cfg.Validator != nil {
		return e.cfg.Validator(order)
	}
	return 0, false
}

func (e *Engine) processSubmit(cmd *model.SubmitOrder) error {
	book := e.books[cmd.Symbol]

	_, dup := e.eventstore.ExchangeOrderID(cmd.ClientID, cmd.ClientOrderID)
	if dup {
		e.log.Warnw("duplicate client order id",
			"symbol", cmd.Symbol, "clientID", cmd.ClientID, "clientOrderID", cmd.ClientOrderID)
	}

	counter := e.nextOrderID[cmd.Symbol]
	id := *counter
	*counter = id + 1

	side := matching.BUY
	if cmd.Side == model.OrderSideSell {
		side = matching.SELL
	}

	size := cmd.Quantity.IntPart()
	price := fixedpoint.FromDecimal(cmd.Price)

	if cmd.Type == model.OrderTypeMarket {
		book.CreateOrder(cmd.ClientID, cmd.ClientOrderID, id, side, size, price, matching.MARKET, matching.IOC)
	} else {
		tif := matching.GTC
		switch cmd.TimeInForce {
		case model.OrderTimeInForceIOC:
			tif = matching.IOC
		case model.OrderTimeInForceDAY:
			tif = matching.DAY
		}
		book.CreateLimit(cmd.ClientID, cmd.ClientOrderID, id, side, size, price, tif)
	}

	e.publishQuote(book)
	if dup {
		return errDuplicateOrder
	}
	return nil
}

// ownedOrder resolves a resting order for a client command. Only the
// submitting client may cancel or reduce its own orders.
func (e *Engine) ownedOrder(book *matching.OrderBook, exchangeOrderID, clientID int64) (*matching.Order, error) {
	order := book.GetOrder(exchangeOrderID)
	if order == nil {
		return nil, errOrderNotFound
	}
	if order.ClientID() != clientID {
		return nil, errNotOrderOwner
	}
	return order, nil
}

func (e *Engine) processCancel(cmd *model.CancelOrder) error {
	book := e.books[cmd.Symbol]
	if _, err := e.ownedOrder(book, cmd.ExchangeOrderID, cmd.ClientID); err != nil {
		return err
	}
	book.CancelOrder(cmd.ExchangeOrderID)
	e.publishQuote(book)
	return nil
}

func (e *Engine) processReduce(cmd *model.ReduceOrder) error {
	book := e.books[cmd.Symbol]
	if _, err := e.ownedOrder(book, cmd.ExchangeOrderID, cmd.ClientID); err != nil {
		return err
	}
	book.ReduceOrder(cmd.ExchangeOrderID, cmd.NewQuantity.IntPart())
	e.publishQuote(book)
	return nil
}

// ExpireAll ends the trading day: every Day order on every book is canceled.
func (e *Engine) ExpireAll() {
	for symbol, book := range e.books {
		book.Expire()
		e.publishQuote(book)
		e.log.Infow("expired day orders", "symbol", symbol)
	}
}

// Roll moves a symbol's GTC orders onto a fresh book for the next session.
func (e *Engine) Roll(symbol string) error {
	book, ok := e.books[symbol]
	if !ok {
		return errUnknownSymbol
	}
	newBook := matching.NewOrderBookFrom(book)
	e.rolling = true
	next := book.RollTo(newBook)
	e.rolling = false
	e.books[symbol] = newBook
	*e.nextOrderID[symbol] = next
	e.publishQuote(newBook)
	return nil
}

func (e *Engine) publishQuote(book *matching.OrderBook) {
	if e.quotes == nil {
		return
	}
	if err := e.quotes.Publish(context.Background(), book); err != nil {
		e.log.Warnw("publish quote fail", "symbol", book.Security(), "err", err)
	}
}

func (e *Engine) emit(ev *model.OrderEvent) {
	e.eventstore.AddEvent(ev)
	if e.publisher != nil {
		if err := e.publisher.PublishEvent(context.Background(), ev); err != nil {
			e.log.Warnw("publish event fail", "eventID", ev.EventID, "err", err)
		}
	}
}

func (e *Engine) newEvent(order *matching.Order, eventType model.OrderEventType, bookTime int64) *model.OrderEvent {
	seq := atomic.AddUint64(&e.seq, 1)
	return &model.OrderEvent{
		EventID:         model.NewEventID(order.Security(), order.ID(), seq),
		Sequence:        seq,
		Symbol:          order.Security(),
		ExchangeOrderID: order.ID(),
		ClientID:        order.ClientID(),
		ClientOrderID:   order.ClientOrderID(),
		EventType:       eventType,
		Side:            model.SideOf(order.Side()),
		Type:            model.TypeOf(order.Type()),
		TimeInForce:     model.TimeInForceOf(order.TimeInForce()),
		Price:           order.PriceAsFloat(),
		OpenSize:        order.OpenSize(),
		ExecutedSize:    order.ExecutedSize(),
		CanceledSize:    order.CanceledSize(),
		BookTime:        bookTime,
		Timestamp:       time.Now(),
	}
}

// matching.BookListener implementation. These run synchronously inside book
// calls, on the shard goroutine owning the symbol.

func (e *Engine) OnOrderAccepted(book *matching.OrderBook, time int64, order *matching.Order) {
	e.emit(e.newEvent(order, model.EventTypeAccepted, time))
}

func (e *Engine) OnOrderRested(book *matching.OrderBook, time int64, order *matching.Order, restSize, restPrice int64) {
	ev := e.newEvent(order, model.EventTypeRested, time)
	ev.NewTotalSize = restSize
	e.emit(ev)
}

func (e *Engine) OnOrderReduced(book *matching.OrderBook, time int64, order *matching.Order, newTotalSize int64) {
	ev := e.newEvent(order, model.EventTypeReduced, time)
	ev.NewTotalSize = newTotalSize
	e.emit(ev)
}

func (e *Engine) OnOrderExecuted(book *matching.OrderBook, time int64, order *matching.Order, executeSide matching.ExecuteSide, executeSize, executePrice, executeID, matchID int64) {
	ev := e.newEvent(order, model.EventTypeExecuted, time)
	ev.ExecuteSide = executeSide.String()
	ev.ExecuteSize = executeSize
	ev.ExecutePrice = fixedpoint.ToDouble(executePrice)
	ev.ExecutionID = executeID
	ev.MatchID = matchID
	e.emit(ev)
}

func (e *Engine) OnOrderCanceled(book *matching.OrderBook, time int64, order *matching.Order, reason matching.CancelReason) {
	ev := e.newEvent(order, model.EventTypeCanceled, time)
	ev.Reason = reason.String()
	e.emit(ev)
}

func (e *Engine) OnOrderRejected(book *matching.OrderBook, time int64, order *matching.Order, reason matching.RejectReason) {
	ev := e.newEvent(order, model.EventTypeRejected, time)
	ev.Reason = reason.String()
	e.emit(ev)
}

func (e *Engine) OnOrderTerminated(book *matching.OrderBook, time int64, order *matching.Order) {
	e.emit(e.newEvent(order, model.EventTypeTerminated, time))
}
