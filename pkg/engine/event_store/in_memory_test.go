package eventstore

import (
	"testing"

	"github.com/joripage/matching-core/pkg/engine/model"
)

func event(symbol string, id int64, clientID int64, clOrdID string, typ model.OrderEventType, seq uint64) *model.OrderEvent {
	return &model.OrderEvent{
		EventID:         model.NewEventID(symbol, id, seq),
		Sequence:        seq,
		Symbol:          symbol,
		ExchangeOrderID: id,
		ClientID:        clientID,
		ClientOrderID:   clOrdID,
		EventType:       typ,
	}
}

func TestJournalKeepsArrivalOrderPerSymbol(t *testing.T) {
	s := NewInMemoryEventStore(0)

	s.AddEvent(event("AAPL", 1, 1, "c1", model.EventTypeAccepted, 1))
	s.AddEvent(event("MSFT", 1, 1, "m1", model.EventTypeAccepted, 2))
	s.AddEvent(event("AAPL", 1, 1, "c1", model.EventTypeRested, 3))

	aapl := s.Events("AAPL")
	if len(aapl) != 2 || aapl[0].Sequence != 1 || aapl[1].Sequence != 3 {
		t.Errorf("unexpected AAPL journal %v", aapl)
	}
	if len(s.Events("MSFT")) != 1 {
		t.Error("symbols must journal independently")
	}
	if s.Len() != 3 {
		t.Errorf("expected 3 total events, got %d", s.Len())
	}
}

func TestBoundedJournalEvictsOldest(t *testing.T) {
	s := NewInMemoryEventStore(2)

	s.AddEvent(event("AAPL", 1, 1, "c1", model.EventTypeAccepted, 1))
	s.AddEvent(event("AAPL", 1, 1, "c1", model.EventTypeRested, 2))
	s.AddEvent(event("AAPL", 1, 1, "c1", model.EventTypeCanceled, 3))

	events := s.Events("AAPL")
	if len(events) != 2 || events[0].Sequence != 2 {
		t.Errorf("expected the oldest event evicted, got %v", events)
	}
}

func TestClientOrderIDLookup(t *testing.T) {
	s := NewInMemoryEventStore(0)

	s.AddEvent(event("AAPL", 7, 1, "c1", model.EventTypeAccepted, 1))
	s.AddEvent(event("AAPL", 8, 2, "c1", model.EventTypeAccepted, 2))

	if id, ok := s.ExchangeOrderID(1, "c1"); !ok || id != 7 {
		t.Errorf("expected id 7 for client 1, got %d/%v", id, ok)
	}
	if id, ok := s.ExchangeOrderID(2, "c1"); !ok || id != 8 {
		t.Errorf("expected id 8 for client 2, got %d/%v", id, ok)
	}
	if _, ok := s.ExchangeOrderID(3, "c1"); ok {
		t.Error("unknown client must not resolve")
	}
}

func TestOrderEventsFiltersByOrder(t *testing.T) {
	s := NewInMemoryEventStore(0)

	s.AddEvent(event("AAPL", 1, 1, "c1", model.EventTypeAccepted, 1))
	s.AddEvent(event("AAPL", 2, 1, "c2", model.EventTypeAccepted, 2))
	s.AddEvent(event("AAPL", 1, 1, "c1", model.EventTypeCanceled, 3))

	events := s.OrderEvents("AAPL", 1)
	if len(events) != 2 || events[1].EventType != model.EventTypeCanceled {
		t.Errorf("unexpected order history %v", events)
	}
}
