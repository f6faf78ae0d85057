package matching

// Side of the book an order belongs to.
type Side int8

const (
	BUY Side = iota
	SELL
)

func (s Side) String() string {
	if s == BUY {
		return "BUY"
	}
	return "SELL"
}

// FixCode returns the FIX 4.x code for tag 54.
func (s Side) FixCode() string {
	if s == BUY {
		return "1"
	}
	return "2"
}

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == BUY {
		return SELL
	}
	return BUY
}

func (s Side) index() int {
	return int(s)
}

// isInside reports whether price is at or better than market for this side,
// i.e. a buy at or above market, a sell at or below market.
func (s Side) isInside(price, market int64) bool {
	if s == BUY {
		return price >= market
	}
	return price <= market
}

// isOutside reports whether price is strictly worse than market for this side.
func (s Side) isOutside(price, market int64) bool {
	return !s.isInside(price, market)
}

// Type is the order type.
type Type int8

const (
	LIMIT Type = iota
	MARKET
)

func (t Type) String() string {
	if t == MARKET {
		return "MARKET"
	}
	return "LIMIT"
}

// FixCode returns the FIX 4.x code for tag 40.
func (t Type) FixCode() string {
	if t == MARKET {
		return "1"
	}
	return "2"
}

// TimeInForce controls how long an order stays in force.
type TimeInForce int8

const (
	GTC TimeInForce = iota
	IOC
	DAY
)

func (tif TimeInForce) String() string {
	switch tif {
	case GTC:
		return "GTC"
	case IOC:
		return "IOC"
	default:
		return "DAY"
	}
}

// FixCode returns the FIX 4.x code for tag 59.
func (tif TimeInForce) FixCode() string {
	switch tif {
	case GTC:
		return "1"
	case IOC:
		return "3"
	default:
		return "0"
	}
}

// ExecuteSide tells whether an execution filled the resting or the incoming
// order.
type ExecuteSide int8

const (
	TAKER ExecuteSide = iota
	MAKER
)

func (es ExecuteSide) String() string {
	if es == MAKER {
		return "MAKER"
	}
	return "TAKER"
}

// RejectReason is attached to onOrderRejected callbacks.
type RejectReason int8

const (
	RejectReasonMissingField RejectReason = iota
	RejectReasonBadType
	RejectReasonBadTif
	RejectReasonBadSide
	RejectReasonBadSymbol
	RejectReasonBadPrice
	RejectReasonBadSize
	RejectReasonTradingHalted
	RejectReasonBadLot
	RejectReasonUnknownSymbol
	RejectReasonDuplicateOrderID
)

var rejectReasonNames = [...]string{
	"MISSING_FIELD", "BAD_TYPE", "BAD_TIF", "BAD_SIDE", "BAD_SYMBOL",
	"BAD_PRICE", "BAD_SIZE", "TRADING_HALTED", "BAD_LOT", "UNKNOWN_SYMBOL",
	"DUPLICATE_ORDER_ID",
}

func (r RejectReason) String() string {
	return rejectReasonNames[r]
}

// CancelReason is attached to onOrderCanceled callbacks.
type CancelReason int8

const (
	CancelReasonMissed CancelReason = iota
	CancelReasonUser
	CancelReasonNoLiquidity
	CancelReasonPrice
	CancelReasonCrossed
	CancelReasonPurged
	CancelReasonExpired
	CancelReasonRolled
)

var cancelReasonNames = [...]string{
	"MISSED", "USER", "NO_LIQUIDITY", "PRICE", "CROSSED", "PURGED",
	"EXPIRED", "ROLLED",
}

func (r CancelReason) String() string {
	return cancelReasonNames[r]
}

// State classifies the book by its top of book.
type State int8

const (
	StateNormal State = iota
	StateLocked
	StateCrossed
	StateOneSided
	StateEmpty
)

var stateNames = [...]string{"NORMAL", "LOCKED", "CROSSED", "ONESIDED", "EMPTY"}

func (s State) String() string {
	return stateNames[s]
}
