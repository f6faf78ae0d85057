package matching

// PriceLevel is the FIFO queue of resting orders sharing one side and one
// price. It observes its member orders to keep the aggregate open size
// current: the size is cached and recomputed lazily when an order mutation
// marks it dirty. A level with zero orders must be detached from the ladder
// and pooled immediately by its owner.
type PriceLevel struct {
	price    int64
	side     Side
	security string

	size      int64
	sizeDirty bool

	orders int

	head *Order
	tail *Order

	next *PriceLevel
	prev *PriceLevel
}

func (pl *PriceLevel) init(security string, side Side, price int64) {
	pl.security = security
	pl.side = side
	pl.price = price
	pl.size = 0
	pl.sizeDirty = false
	pl.orders = 0
	pl.head = nil
	pl.tail = nil
	pl.next = nil
	pl.prev = nil
}

func (pl *PriceLevel) Price() int64     { return pl.price }
func (pl *PriceLevel) Side() Side       { return pl.side }
func (pl *PriceLevel) Security() string { return pl.security }
func (pl *PriceLevel) Orders() int      { return pl.orders }
func (pl *PriceLevel) IsEmpty() bool    { return pl.orders == 0 }

// Head returns the first order in FIFO arrival order.
func (pl *PriceLevel) Head() *Order { return pl.head }

// Tail returns the last order in FIFO arrival order.
func (pl *PriceLevel) Tail() *Order { return pl.tail }

// Next returns the next worse level in the ladder.
func (pl *PriceLevel) Next() *PriceLevel { return pl.next }

// Prev returns the next better level in the ladder.
func (pl *PriceLevel) Prev() *PriceLevel { return pl.prev }

// Size returns the aggregate open size of the member orders, recomputing it
// if a mutation left the cached value stale.
func (pl *PriceLevel) Size() int64 {
	if pl.sizeDirty {
		pl.size = 0
		for o := pl.head; o != nil; o = o.next {
			pl.size += o.OpenSize()
		}
		pl.sizeDirty = false
	}
	return pl.size
}

func (pl *PriceLevel) isSizeDirty() bool { return pl.sizeDirty }

// addOrder appends the order to the FIFO tail and registers the level as one
// of the order's listeners so it can self-clean on cancel and terminal
// execution.
func (pl *PriceLevel) addOrder(order *Order) {
	if pl.head == nil {
		pl.head = order
		pl.tail = order
		order.prev = nil
		order.next = nil
	} else {
		pl.tail.next = order
		order.prev = pl.tail
		pl.tail = order
		order.next = nil
	}

	pl.size += order.OpenSize()
	pl.orders++
	pl.sizeDirty = true

	order.AddListener(pl)
}

// removeOrder unlinks the order. Only invoked in response to the order's own
// cancel or terminal-execute notification, never speculatively. The removed
// order keeps its next/prev links so in-flight iterations survive.
func (pl *PriceLevel) removeOrder(order *Order) {
	if order.prev != nil {
		order.prev.next = order.next
	}
	if order.next != nil {
		order.next.prev = order.prev
	}
	if pl.tail == order {
		pl.tail = order.prev
	}
	if pl.head == order {
		pl.head = order.next
	}

	pl.orders--
	pl.sizeDirty = true
}

func (pl *PriceLevel) OnOrderReduced(time int64, order *Order, newTotalSize int64) {
	pl.sizeDirty = true
}

func (pl *PriceLevel) OnOrderCanceled(time int64, order *Order, reason CancelReason) {
	pl.sizeDirty = true
	pl.removeOrder(order)
}

func (pl *PriceLevel) OnOrderExecuted(time int64, order *Order, executeSide ExecuteSide, executeSize, executePrice, executeID, matchID int64) {
	pl.sizeDirty = true
	if order.IsTerminal() {
		pl.removeOrder(order)
	}
}

// A level never holds an unaccepted or rejected order, and termination was
// already handled by the cancel/execute callback.
func (pl *PriceLevel) OnOrderAccepted(time int64, order *Order)                          {}
func (pl *PriceLevel) OnOrderRejected(time int64, order *Order, reason RejectReason)     {}
func (pl *PriceLevel) OnOrderRested(time int64, order *Order, restSize, restPrice int64) {}
func (pl *PriceLevel) OnOrderTerminated(time int64, order *Order)                        {}
