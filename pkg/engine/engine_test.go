package engine

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/joripage/matching-core/pkg/engine/model"
)

type capturingPublisher struct {
	events []*model.OrderEvent
}

func (p *capturingPublisher) PublishEvent(ctx context.Context, ev *model.OrderEvent) error {
	p.events = append(p.events, ev)
	return nil
}

func newTestEngine(t *testing.T, opts ...EngineOption) (*Engine, *capturingPublisher) {
	t.Helper()
	pub := &capturingPublisher{}
	opts = append(opts, WithPublisher(pub))
	e := NewEngine(Config{
		Symbols:          []string{"AAPL"},
		AllowTradeToSelf: true,
	}, opts...)
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("start engine: %v", err)
	}
	return e, pub
}

func submit(symbol, clOrdID string, clientID int64, side model.OrderSide, qty int64, price float64) *model.SubmitOrder {
	return &model.SubmitOrder{
		Symbol:        symbol,
		ClientID:      clientID,
		ClientOrderID: clOrdID,
		Side:          side,
		Type:          model.OrderTypeLimit,
		TimeInForce:   model.OrderTimeInForceGTC,
		Price:         decimal.NewFromFloat(price),
		Quantity:      decimal.NewFromInt(qty),
	}
}

func TestSubmitOrderJournalsAndPublishes(t *testing.T) {
	e, pub := newTestEngine(t)
	ctx := context.Background()

	if err := e.SubmitOrder(ctx, submit("AAPL", "c1", 1, model.OrderSideBuy, 100, 150.44)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	events := e.EventStore().Events("AAPL")
	if len(events) != 2 {
		t.Fatalf("expected accepted+rested in the journal, got %d events", len(events))
	}
	if events[0].EventType != model.EventTypeAccepted || events[1].EventType != model.EventTypeRested {
		t.Errorf("unexpected event types %v %v", events[0].EventType, events[1].EventType)
	}
	if events[0].ExchangeOrderID != 1 {
		t.Errorf("expected exchange order id 1, got %d", events[0].ExchangeOrderID)
	}
	if len(pub.events) != 2 {
		t.Errorf("expected journal and publisher in lockstep, published %d", len(pub.events))
	}
	if e.Book("AAPL").NumberOfOrders() != 1 {
		t.Errorf("expected one resting order, got %d", e.Book("AAPL").NumberOfOrders())
	}
}

func TestCrossingOrdersProduceExecutions(t *testing.T) {
	e, pub := newTestEngine(t)
	ctx := context.Background()

	_ = e.SubmitOrder(ctx, submit("AAPL", "buy1", 1, model.OrderSideBuy, 100, 150.00))
	_ = e.SubmitOrder(ctx, submit("AAPL", "sell1", 2, model.OrderSideSell, 40, 149.00))

	var execs []*model.OrderEvent
	for _, ev := range pub.events {
		if ev.EventType == model.EventTypeExecuted {
			execs = append(execs, ev)
		}
	}
	if len(execs) != 2 {
		t.Fatalf("expected maker and taker executions, got %d", len(execs))
	}
	if execs[0].ExecuteSide != "MAKER" || execs[1].ExecuteSide != "TAKER" {
		t.Errorf("expected maker first then taker, got %s/%s", execs[0].ExecuteSide, execs[1].ExecuteSide)
	}
	for _, ev := range execs {
		if ev.ExecutePrice != 150.00 {
			t.Errorf("trade must print at the resting price, got %v", ev.ExecutePrice)
		}
		if ev.ExecuteSize != 40 || ev.MatchID != 1 {
			t.Errorf("unexpected execution %+v", ev)
		}
	}
	if e.Book("AAPL").BestBidSize() != 60 {
		t.Errorf("expected 60 left at the bid, got %d", e.Book("AAPL").BestBidSize())
	}
}

func TestDuplicateClientOrderIDRejected(t *testing.T) {
	e, pub := newTestEngine(t)
	ctx := context.Background()

	if err := e.SubmitOrder(ctx, submit("AAPL", "c1", 1, model.OrderSideBuy, 100, 150.00)); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if err := e.SubmitOrder(ctx, submit("AAPL", "c1", 1, model.OrderSideBuy, 100, 151.00)); err != errDuplicateOrder {
		t.Errorf("expected duplicate rejection, got %v", err)
	}
	// the duplicate surfaces to listeners as a journaled rejection
	last := pub.events[len(pub.events)-1]
	if last.EventType != model.EventTypeRejected || last.Reason != "DUPLICATE_ORDER_ID" {
		t.Errorf("expected a DUPLICATE_ORDER_ID rejection event, got %v/%s", last.EventType, last.Reason)
	}
	if e.Book("AAPL").NumberOfOrders() != 1 {
		t.Errorf("duplicate must not rest, got %d orders", e.Book("AAPL").NumberOfOrders())
	}
	// a different client may reuse the same client order id
	if err := e.SubmitOrder(ctx, submit("AAPL", "c1", 2, model.OrderSideBuy, 100, 151.00)); err != nil {
		t.Errorf("other client's id must not collide: %v", err)
	}
}

func TestUnknownSymbolRejected(t *testing.T) {
	e, _ := newTestEngine(t)

	err := e.SubmitOrder(context.Background(), submit("TSLA", "c1", 1, model.OrderSideBuy, 100, 150.00))
	if err != errUnknownSymbol {
		t.Errorf("expected unknown symbol error, got %v", err)
	}
}

func TestCancelAndReduceByExchangeOrderID(t *testing.T) {
	e, pub := newTestEngine(t)
	ctx := context.Background()

	_ = e.SubmitOrder(ctx, submit("AAPL", "c1", 1, model.OrderSideBuy, 200, 150.00))

	if err := e.ReduceOrder(ctx, &model.ReduceOrder{Symbol: "AAPL", ClientID: 1, ExchangeOrderID: 1, NewQuantity: decimal.NewFromInt(120)}); err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if e.Book("AAPL").BestBidSize() != 120 {
		t.Errorf("expected 120 at the bid, got %d", e.Book("AAPL").BestBidSize())
	}

	if err := e.CancelOrder(ctx, &model.CancelOrder{Symbol: "AAPL", ClientID: 1, ExchangeOrderID: 1}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !e.Book("AAPL").IsEmpty() {
		t.Error("expected an empty book after cancel")
	}

	last := pub.events[len(pub.events)-1]
	if last.EventType != model.EventTypeTerminated {
		t.Errorf("expected a terminated event last, got %v", last.EventType)
	}

	if err := e.CancelOrder(ctx, &model.CancelOrder{Symbol: "AAPL", ClientID: 1, ExchangeOrderID: 42}); err != errOrderNotFound {
		t.Errorf("expected order-not-found, got %v", err)
	}
}

func TestCancelAndReduceRequireOwnership(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_ = e.SubmitOrder(ctx, submit("AAPL", "c1", 1, model.OrderSideBuy, 200, 150.00))

	if err := e.CancelOrder(ctx, &model.CancelOrder{Symbol: "AAPL", ClientID: 2, ExchangeOrderID: 1}); err != errNotOrderOwner {
		t.Errorf("expected ownership refusal on cancel, got %v", err)
	}
	if err := e.ReduceOrder(ctx, &model.ReduceOrder{Symbol: "AAPL", ClientID: 2, ExchangeOrderID: 1, NewQuantity: decimal.NewFromInt(50)}); err != errNotOrderOwner {
		t.Errorf("expected ownership refusal on reduce, got %v", err)
	}
	if e.Book("AAPL").BestBidSize() != 200 {
		t.Errorf("foreign commands must not touch the order, got %d", e.Book("AAPL").BestBidSize())
	}
}

func TestRollKeepsGTCOrdersAndIDSequence(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_ = e.SubmitOrder(ctx, submit("AAPL", "c1", 1, model.OrderSideBuy, 100, 150.00))
	day := submit("AAPL", "c2", 1, model.OrderSideBuy, 100, 149.00)
	day.TimeInForce = model.OrderTimeInForceDAY
	_ = e.SubmitOrder(ctx, day)

	oldBook := e.Book("AAPL")
	if err := e.Roll("AAPL"); err != nil {
		t.Fatalf("roll: %v", err)
	}

	newBook := e.Book("AAPL")
	if newBook == oldBook {
		t.Fatal("expected a fresh book after roll")
	}
	if newBook.NumberOfOrders() != 1 {
		t.Fatalf("only the GTC order rolls, got %d", newBook.NumberOfOrders())
	}

	// ids continue after the rolled orders
	_ = e.SubmitOrder(ctx, submit("AAPL", "c3", 1, model.OrderSideSell, 50, 155.00))
	events := e.EventStore().Events("AAPL")
	last := events[len(events)-1]
	if last.ExchangeOrderID != 2 {
		t.Errorf("expected the next order to get id 2, got %d", last.ExchangeOrderID)
	}
}

func TestExpireAllCancelsDayOrders(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	day := submit("AAPL", "c1", 1, model.OrderSideBuy, 100, 150.00)
	day.TimeInForce = model.OrderTimeInForceDAY
	_ = e.SubmitOrder(ctx, day)
	_ = e.SubmitOrder(ctx, submit("AAPL", "c2", 1, model.OrderSideBuy, 100, 149.00))

	e.ExpireAll()

	if e.Book("AAPL").NumberOfOrders() != 1 {
		t.Errorf("expected only the GTC order to survive, got %d", e.Book("AAPL").NumberOfOrders())
	}
	var sawExpired bool
	for _, ev := range e.EventStore().Events("AAPL") {
		if ev.EventType == model.EventTypeCanceled && ev.Reason == "EXPIRED" {
			sawExpired = true
		}
	}
	if !sawExpired {
		t.Error("expected an EXPIRED cancel in the journal")
	}
}

func TestMarketOrderCommand(t *testing.T) {
	e, pub := newTestEngine(t)
	ctx := context.Background()

	_ = e.SubmitOrder(ctx, submit("AAPL", "c1", 1, model.OrderSideSell, 100, 150.00))

	mkt := &model.SubmitOrder{
		Symbol:        "AAPL",
		ClientID:      2,
		ClientOrderID: "m1",
		Side:          model.OrderSideBuy,
		Type:          model.OrderTypeMarket,
		Quantity:      decimal.NewFromInt(60),
	}
	if err := e.SubmitOrder(ctx, mkt); err != nil {
		t.Fatalf("submit market: %v", err)
	}

	var taker *model.OrderEvent
	for _, ev := range pub.events {
		if ev.EventType == model.EventTypeExecuted && ev.ExecuteSide == "TAKER" {
			taker = ev
		}
	}
	if taker == nil || taker.ExecuteSize != 60 || taker.ExecutePrice != 150.00 {
		t.Errorf("unexpected market execution %+v", taker)
	}
	if e.Book("AAPL").BidLevels() != 0 {
		t.Error("market orders must never rest")
	}
}
