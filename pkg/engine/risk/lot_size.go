package risk

import (
	"github.com/joripage/matching-core/pkg/matching"
)

// LotSizeRule rejects quantities that are not a multiple of the round lot.
type LotSizeRule struct {
	Lot int64
}

func (r *LotSizeRule) Check(order *matching.Order) (matching.RejectReason, bool) {
	if r.Lot <= 0 {
		return 0, false
	}
	if order.TotalSize() <= 0 || order.TotalSize()%r.Lot != 0 {
		return matching.RejectReasonBadLot, true
	}
	return 0, false
}
