package matching

import (
	"strings"
	"testing"
)

// tracer is an OrderListener tagging each callback with its own name so
// fan-out ordering across multiple listeners is observable.
type tracer struct {
	name  string
	calls *[]string
}

func (tr *tracer) record(event string) {
	*tr.calls = append(*tr.calls, tr.name+":"+event)
}

func (tr *tracer) OnOrderAccepted(time int64, order *Order) { tr.record("accepted") }
func (tr *tracer) OnOrderRested(time int64, order *Order, restSize, restPrice int64) {
	tr.record("rested")
}
func (tr *tracer) OnOrderReduced(time int64, order *Order, newTotalSize int64) {
	tr.record("reduced")
}
func (tr *tracer) OnOrderExecuted(time int64, order *Order, executeSide ExecuteSide, executeSize, executePrice, executeID, matchID int64) {
	tr.record("executed")
}
func (tr *tracer) OnOrderCanceled(time int64, order *Order, reason CancelReason) {
	tr.record("canceled")
}
func (tr *tracer) OnOrderRejected(time int64, order *Order, reason RejectReason) {
	tr.record("rejected")
}
func (tr *tracer) OnOrderTerminated(time int64, order *Order) { tr.record("terminated") }

func newOrder(side Side, size, price int64, typ Type, tif TimeInForce) *Order {
	o := &Order{}
	o.init(7, "clord", 0, "AAPL", side, size, price, typ, tif)
	return o
}

func TestListenersFireInReverseRegistrationOrder(t *testing.T) {
	var calls []string
	o := newOrder(BUY, 100, 1000, LIMIT, DAY)
	o.AddListener(&tracer{name: "first", calls: &calls})
	o.AddListener(&tracer{name: "second", calls: &calls})

	o.Accept(1, 1)

	if len(calls) != 2 || calls[0] != "second:accepted" || calls[1] != "first:accepted" {
		t.Errorf("expected last-registered listener first, got %v", calls)
	}
}

func TestCancelFiresTerminatedAndDetachesListeners(t *testing.T) {
	var calls []string
	o := newOrder(BUY, 100, 1000, LIMIT, DAY)
	o.AddListener(&tracer{name: "l", calls: &calls})
	o.Accept(1, 1)
	calls = calls[:0]

	o.Cancel(2, CancelReasonUser)

	if len(calls) != 2 || calls[0] != "l:canceled" || calls[1] != "l:terminated" {
		t.Fatalf("unexpected call sequence %v", calls)
	}
	if o.CancelTime() != 2 {
		t.Errorf("expected cancel time 2, got %d", o.CancelTime())
	}

	// terminal orders are inert
	calls = calls[:0]
	o.Execute(3, MAKER, 10, 1000, 1, 1)
	if len(calls) != 0 {
		t.Errorf("terminal order must not notify anyone, got %v", calls)
	}
}

func TestRejectDoesNotFireTerminated(t *testing.T) {
	var calls []string
	o := newOrder(BUY, 100, 1000, LIMIT, DAY)
	o.AddListener(&tracer{name: "l", calls: &calls})

	o.Reject(1, RejectReasonBadSize)

	if len(calls) != 1 || calls[0] != "l:rejected" {
		t.Errorf("reject must be the only callback, got %v", calls)
	}
	if o.TotalSize() != 0 || o.ExecutedSize() != 0 || o.OpenSize() != 0 {
		t.Errorf("reject must zero all sizes, got total=%d executed=%d", o.TotalSize(), o.ExecutedSize())
	}
}

func TestExecuteClampsToOpenSize(t *testing.T) {
	o := newOrder(SELL, 100, 1000, LIMIT, DAY)
	o.Accept(1, 1)

	o.Execute(2, MAKER, 70, 1000, 1, 1)
	o.Execute(3, MAKER, 500, 1000, 2, 2) // clamped to the remaining 30

	if o.ExecutedSize() != 100 {
		t.Errorf("expected executed 100, got %d", o.ExecutedSize())
	}
	if !o.IsTerminal() {
		t.Error("expected fully executed order terminal")
	}
	if o.ExecuteTime() != 3 {
		t.Errorf("expected last execute time 3, got %d", o.ExecuteTime())
	}
}

func TestReduceToClampsIncrease(t *testing.T) {
	o := newOrder(BUY, 100, 1000, LIMIT, DAY)
	o.Accept(1, 1)

	o.ReduceTo(2, 500)

	if o.TotalSize() != 100 {
		t.Errorf("reduce must never grow an order, got total=%d", o.TotalSize())
	}
	if o.ReduceTime() != 2 {
		t.Errorf("expected reduce time 2, got %d", o.ReduceTime())
	}
}

func TestCancelSizeWholeOpenDelegatesToCancel(t *testing.T) {
	var calls []string
	o := newOrder(BUY, 100, 1000, LIMIT, DAY)
	o.Accept(1, 1)
	o.Execute(2, TAKER, 40, 1000, 1, 1)
	o.AddListener(&tracer{name: "l", calls: &calls})

	o.CancelSize(3, 60, CancelReasonUser)

	if !o.IsTerminal() {
		t.Fatal("canceling the whole open size must terminate")
	}
	if calls[0] != "l:canceled" {
		t.Errorf("expected a cancel, not a reduction, got %v", calls)
	}
	if o.ExecutedSize() != 40 || o.CanceledSize() != 60 {
		t.Errorf("expected executed=40 canceled=60, got %d/%d", o.ExecutedSize(), o.CanceledSize())
	}
}

func TestClientOrderIDTruncated(t *testing.T) {
	long := strings.Repeat("x", ClientOrderIDMaxLength+20)
	o := newOrder(BUY, 100, 1000, LIMIT, DAY)
	o.init(1, long, 0, "AAPL", BUY, 100, 1000, LIMIT, DAY)

	if len(o.ClientOrderID()) != ClientOrderIDMaxLength {
		t.Errorf("expected client order id capped at %d, got %d", ClientOrderIDMaxLength, len(o.ClientOrderID()))
	}
}

func TestStringOmitsPriceForMarketOrders(t *testing.T) {
	limit := newOrder(BUY, 100, 1000, LIMIT, DAY)
	if !strings.Contains(limit.String(), "price=") {
		t.Errorf("limit order string must carry the price: %s", limit)
	}
	market := newOrder(BUY, 100, 0, MARKET, IOC)
	if strings.Contains(market.String(), "price=") {
		t.Errorf("market order string must not carry a price: %s", market)
	}
}
