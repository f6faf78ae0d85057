package matching

import (
	"testing"

	"github.com/joripage/matching-core/pkg/fixedpoint"
)

func TestSelfTradeAllowedByDefault(t *testing.T) {
	ob, _ := newTestBook(t)

	maker := ob.CreateLimit(1, "a1", 1, SELL, 100, fixedpoint.ToLong(10.00), DAY)
	taker := ob.CreateLimit(1, "b1", 2, BUY, 100, fixedpoint.ToLong(10.00), DAY)

	if !maker.IsTerminal() || !taker.IsTerminal() {
		t.Error("same-client orders must trade when self-trading is allowed")
	}
}

func TestSelfTradeSkipsOwnRestingOrders(t *testing.T) {
	ob, rec := newTestBook(t, WithAllowTradeToSelf(false))

	price := fixedpoint.ToLong(10.00)
	own := ob.CreateLimit(1, "a1", 1, SELL, 100, price, DAY)
	other := ob.CreateLimit(2, "a2", 2, SELL, 100, price, DAY)
	rec.events = rec.events[:0]

	taker := ob.CreateLimit(1, "b1", 3, BUY, 200, price, DAY)

	if other.OpenSize() != 0 {
		t.Error("the other client's order must fill despite queuing behind")
	}
	if own.OpenSize() != 100 {
		t.Error("the client's own resting order must be skipped, not traded")
	}
	if taker.ExecutedSize() != 100 {
		t.Errorf("expected one fill of 100, got %d", taker.ExecutedSize())
	}

	// remainder still crosses the client's own ask, so it cancels instead of
	// resting at a crossed price
	if !taker.IsTerminal() || taker.CanceledSize() != 100 {
		t.Errorf("expected remainder canceled, open=%d canceled=%d", taker.OpenSize(), taker.CanceledSize())
	}
	var cancel *recordedEvent
	for i := range rec.events {
		if rec.events[i].kind == "canceled" && rec.events[i].clientOrderID == "b1" {
			cancel = &rec.events[i]
		}
	}
	if cancel == nil || cancel.cancelReason != CancelReasonCrossed {
		t.Errorf("expected cancel reason CROSSED, got %+v", cancel)
	}
}

func TestSelfTradeContinuesToWorseLevels(t *testing.T) {
	ob, _ := newTestBook(t, WithAllowTradeToSelf(false))

	own := ob.CreateLimit(1, "a1", 1, SELL, 100, fixedpoint.ToLong(10.00), DAY)
	other := ob.CreateLimit(2, "a2", 2, SELL, 100, fixedpoint.ToLong(11.00), DAY)

	taker := ob.CreateLimit(1, "b1", 3, BUY, 100, fixedpoint.ToLong(11.00), DAY)

	if own.OpenSize() != 100 {
		t.Error("own best ask must be skipped")
	}
	if other.OpenSize() != 0 {
		t.Error("matching must continue past the skipped order to the next level")
	}
	if !taker.IsTerminal() || taker.ExecutedSize() != 100 {
		t.Errorf("expected taker filled at the worse level, executed=%d", taker.ExecutedSize())
	}
	if ob.LastExecutedPrice() != fixedpoint.ToLong(11.00) {
		t.Errorf("expected trade at 11, got %d", ob.LastExecutedPrice())
	}
}

func TestIOCAgainstOwnLiquidityCanceledMissed(t *testing.T) {
	ob, rec := newTestBook(t, WithAllowTradeToSelf(false))

	ob.CreateLimit(1, "a1", 1, SELL, 100, fixedpoint.ToLong(10.00), DAY)
	rec.events = rec.events[:0]

	taker := ob.CreateLimit(1, "b1", 2, BUY, 100, fixedpoint.ToLong(10.00), IOC)

	if taker.ExecutedSize() != 0 || !taker.IsTerminal() {
		t.Fatalf("expected no fills against own liquidity, executed=%d", taker.ExecutedSize())
	}
	// the opposite side has depth, just not tradable depth, so the reason is
	// MISSED rather than NO_LIQUIDITY
	var reason CancelReason = -1
	for _, ev := range rec.events {
		if ev.kind == "canceled" && ev.clientOrderID == "b1" {
			reason = ev.cancelReason
		}
	}
	if reason != CancelReasonMissed {
		t.Errorf("expected MISSED, got %v", reason)
	}
}

func TestNonCrossingRemainderRestsWithSelfTradePrevention(t *testing.T) {
	ob, _ := newTestBook(t, WithAllowTradeToSelf(false))

	ob.CreateLimit(1, "a1", 1, SELL, 100, fixedpoint.ToLong(12.00), DAY)

	taker := ob.CreateLimit(1, "b1", 2, BUY, 100, fixedpoint.ToLong(10.00), DAY)

	if !taker.IsResting() {
		t.Error("a bid below the client's own ask must rest normally")
	}
	if ob.State() != StateNormal {
		t.Errorf("expected NORMAL, got %v", ob.State())
	}
}
