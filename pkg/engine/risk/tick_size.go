package risk

import (
	"encoding/json"
	"os"

	"github.com/joripage/matching-core/pkg/matching"
)

type tickSizeBand struct {
	MaxPrice int64 `json:"maxPrice"` // 0 = no upper bound
	Step     int64 `json:"step"`
}

// TickSizeRule rejects limit prices off the symbol's tick grid. Bands are
// keyed by symbol; a symbol without bands has no tick constraint.
type TickSizeRule struct {
	Config map[string][]tickSizeBand
}

func NewTickSizeRuleFromFile(path string) (*TickSizeRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg map[string][]tickSizeBand
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &TickSizeRule{Config: cfg}, nil
}

func (r *TickSizeRule) Check(order *matching.Order) (matching.RejectReason, bool) {
	if order.IsMarket() {
		return 0, false
	}

	bands, ok := r.Config[order.Security()]
	if !ok { // no config -> no rule
		return 0, false
	}

	price := order.Price()
	for _, band := range bands {
		if band.MaxPrice == 0 || price <= band.MaxPrice {
			if band.Step > 0 && price%band.Step != 0 {
				return matching.RejectReasonBadPrice, true
			}
			return 0, false
		}
	}

	return 0, false
}
