package risk

import (
	"github.com/joripage/matching-core/pkg/matching"
)

type priceBand struct {
	ceil  int64
	floor int64
}

// LimitPriceRule rejects limit prices outside the symbol's daily band.
type LimitPriceRule struct {
	bands map[string]priceBand
}

func NewLimitPriceRule() *LimitPriceRule {
	return &LimitPriceRule{bands: make(map[string]priceBand)}
}

func (r *LimitPriceRule) SetBand(symbol string, floor, ceil int64) {
	r.bands[symbol] = priceBand{ceil: ceil, floor: floor}
}

func (r *LimitPriceRule) Check(order *matching.Order) (matching.RejectReason, bool) {
	if order.IsMarket() {
		return 0, false
	}

	band, ok := r.bands[order.Security()]
	if !ok {
		return 0, false
	}
	if order.Price() > band.ceil || order.Price() < band.floor {
		return matching.RejectReasonBadPrice, true
	}
	return 0, false
}
