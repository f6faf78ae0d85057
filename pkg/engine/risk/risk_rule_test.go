package risk

import (
	"testing"

	"github.com/joripage/matching-core/pkg/fixedpoint"
	"github.com/joripage/matching-core/pkg/matching"
)

func createWith(t *testing.T, v matching.OrderValidator, size, price int64) *matching.Order {
	t.Helper()
	book := matching.NewOrderBook("AAPL", matching.WithValidator(v))
	return book.CreateLimit(1, "c1", 1, matching.BUY, size, price, matching.DAY)
}

func TestLotSizeRule(t *testing.T) {
	v := Validator(&LotSizeRule{Lot: 100})

	if o := createWith(t, v, 150, fixedpoint.ToLong(10.00)); o.RejectTime() < 0 {
		t.Error("odd lot must be rejected")
	}
	if o := createWith(t, v, 200, fixedpoint.ToLong(10.00)); !o.IsResting() {
		t.Error("round lot must pass")
	}
}

func TestLimitPriceRule(t *testing.T) {
	rule := NewLimitPriceRule()
	rule.SetBand("AAPL", fixedpoint.ToLong(90.00), fixedpoint.ToLong(110.00))
	v := Validator(rule)

	if o := createWith(t, v, 100, fixedpoint.ToLong(120.00)); o.RejectTime() < 0 {
		t.Error("price above the band must be rejected")
	}
	if o := createWith(t, v, 100, fixedpoint.ToLong(80.00)); o.RejectTime() < 0 {
		t.Error("price below the band must be rejected")
	}
	if o := createWith(t, v, 100, fixedpoint.ToLong(100.00)); !o.IsResting() {
		t.Error("price inside the band must pass")
	}
}

func TestTickSizeRule(t *testing.T) {
	rule := &TickSizeRule{Config: map[string][]tickSizeBand{
		"AAPL": {
			{MaxPrice: fixedpoint.ToLong(100.00), Step: fixedpoint.ToLong(0.01)},
			{MaxPrice: 0, Step: fixedpoint.ToLong(0.05)},
		},
	}}
	v := Validator(rule)

	if o := createWith(t, v, 100, fixedpoint.ToLong(99.99)); !o.IsResting() {
		t.Error("on-tick price in the first band must pass")
	}
	if o := createWith(t, v, 100, fixedpoint.ToLong(150.02)); o.RejectTime() < 0 {
		t.Error("off-tick price in the second band must be rejected")
	}
	if o := createWith(t, v, 100, fixedpoint.ToLong(150.05)); !o.IsResting() {
		t.Error("on-tick price in the second band must pass")
	}
}

func TestRulesComposeFirstHitWins(t *testing.T) {
	rule := NewLimitPriceRule()
	rule.SetBand("AAPL", fixedpoint.ToLong(90.00), fixedpoint.ToLong(110.00))
	v := Validator(&LotSizeRule{Lot: 100}, rule)

	book := matching.NewOrderBook("AAPL", matching.WithValidator(v))
	o := book.CreateLimit(1, "c1", 1, matching.BUY, 150, fixedpoint.ToLong(120.00), matching.DAY)

	// both rules trip; the lot rule runs first
	if o.RejectTime() < 0 {
		t.Fatal("expected a rejection")
	}
}
