package risk

import (
	"github.com/joripage/matching-core/pkg/matching"
)

// Rule is one pre-trade check. Returning ok=true rejects the order with the
// given reason.
type Rule interface {
	Check(order *matching.Order) (reason matching.RejectReason, ok bool)
}

// Validator composes rules into the book's validation hook. Rules run in
// order; the first hit wins.
func Validator(rules ...Rule) matching.OrderValidator {
	return func(order *matching.Order) (matching.RejectReason, bool) {
		for _, r := range rules {
			if reason, hit := r.Check(order); hit {
				return reason, true
			}
		}
		return 0, false
	}
}
