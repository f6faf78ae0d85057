package matching

import "testing"

func newLevel(side Side, price int64) *PriceLevel {
	pl := &PriceLevel{}
	pl.init("AAPL", side, price)
	return pl
}

func TestLevelKeepsArrivalOrder(t *testing.T) {
	pl := newLevel(SELL, 1000)

	a := newOrder(SELL, 100, 1000, LIMIT, DAY)
	b := newOrder(SELL, 200, 1000, LIMIT, DAY)
	c := newOrder(SELL, 300, 1000, LIMIT, DAY)
	pl.addOrder(a)
	pl.addOrder(b)
	pl.addOrder(c)

	if pl.Orders() != 3 || pl.Size() != 600 {
		t.Fatalf("expected 3 orders of 600, got %d/%d", pl.Orders(), pl.Size())
	}
	if pl.Head() != a || pl.Head().Next() != b || pl.Tail() != c {
		t.Error("orders must queue in arrival order")
	}
}

func TestLevelSizeTracksReductions(t *testing.T) {
	pl := newLevel(BUY, 1000)

	a := newOrder(BUY, 100, 1000, LIMIT, DAY)
	pl.addOrder(a)
	a.Accept(1, 1)

	a.ReduceTo(2, 60)

	if pl.Size() != 60 {
		t.Errorf("expected level size 60 after reduce, got %d", pl.Size())
	}
}

func TestLevelSelfCleansOnCancel(t *testing.T) {
	pl := newLevel(BUY, 1000)

	a := newOrder(BUY, 100, 1000, LIMIT, DAY)
	b := newOrder(BUY, 100, 1000, LIMIT, DAY)
	pl.addOrder(a)
	pl.addOrder(b)
	a.Accept(1, 1)
	b.Accept(1, 2)

	a.Cancel(2, CancelReasonUser)

	if pl.Orders() != 1 || pl.Head() != b {
		t.Errorf("canceled order must leave the level, orders=%d", pl.Orders())
	}
	if pl.Size() != 100 {
		t.Errorf("expected level size 100, got %d", pl.Size())
	}
	// the unlinked node keeps its links so in-flight walks survive
	if a.Next() != b {
		t.Error("removed order must keep its next link")
	}
}

func TestLevelSelfCleansOnTerminalExecution(t *testing.T) {
	pl := newLevel(SELL, 1000)

	a := newOrder(SELL, 100, 1000, LIMIT, DAY)
	pl.addOrder(a)
	a.Accept(1, 1)

	a.Execute(2, MAKER, 40, 1000, 1, 1)
	if pl.Orders() != 1 {
		t.Fatal("partial execution must keep the order on the level")
	}
	if pl.Size() != 60 {
		t.Errorf("expected level size 60, got %d", pl.Size())
	}

	a.Execute(3, MAKER, 60, 1000, 2, 2)
	if pl.Orders() != 0 || !pl.IsEmpty() {
		t.Error("terminal execution must remove the order")
	}
	if pl.Size() != 0 {
		t.Errorf("expected empty level size 0, got %d", pl.Size())
	}
}
