package eventstore

import (
	"fmt"
	"sync"

	"github.com/gammazero/deque"

	"github.com/joripage/matching-core/pkg/engine/model"
)

// InMemoryEventStore journals events per symbol in arrival order. The journal
// is a deque so a bounded store can evict from the front while the engine
// keeps appending at the back.
type InMemoryEventStore struct {
	mu sync.RWMutex

	journals   map[string]*deque.Deque[*model.OrderEvent]
	byClOrdID  map[string]int64
	maxPerBook int
	total      int
}

// NewInMemoryEventStore creates an unbounded store. maxPerSymbol > 0 caps each
// symbol's journal, dropping the oldest entries.
func NewInMemoryEventStore(maxPerSymbol int) *InMemoryEventStore {
	return &InMemoryEventStore{
		journals:   make(map[string]*deque.Deque[*model.OrderEvent]),
		byClOrdID:  make(map[string]int64),
		maxPerBook: maxPerSymbol,
	}
}

func clOrdKey(clientID int64, clientOrderID string) string {
	return fmt.Sprintf("%d|%s", clientID, clientOrderID)
}

func (s *InMemoryEventStore) AddEvent(ev *model.OrderEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j := s.journals[ev.Symbol]
	if j == nil {
		j = &deque.Deque[*model.OrderEvent]{}
		s.journals[ev.Symbol] = j
	}

	j.PushBack(ev)
	s.total++
	if s.maxPerBook > 0 && j.Len() > s.maxPerBook {
		j.PopFront()
		s.total--
	}

	if ev.ClientOrderID != "" && ev.EventType == model.EventTypeAccepted {
		s.byClOrdID[clOrdKey(ev.ClientID, ev.ClientOrderID)] = ev.ExchangeOrderID
	}
}

func (s *InMemoryEventStore) Events(symbol string) []*model.OrderEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j := s.journals[symbol]
	if j == nil {
		return nil
	}
	out := make([]*model.OrderEvent, 0, j.Len())
	for i := 0; i < j.Len(); i++ {
		out = append(out, j.At(i))
	}
	return out
}

func (s *InMemoryEventStore) OrderEvents(symbol string, exchangeOrderID int64) []*model.OrderEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j := s.journals[symbol]
	if j == nil {
		return nil
	}
	var out []*model.OrderEvent
	for i := 0; i < j.Len(); i++ {
		if ev := j.At(i); ev.ExchangeOrderID == exchangeOrderID {
			out = append(out, ev)
		}
	}
	return out
}

func (s *InMemoryEventStore) ExchangeOrderID(clientID int64, clientOrderID string) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byClOrdID[clOrdKey(clientID, clientOrderID)]
	return id, ok
}

func (s *InMemoryEventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.total
}
