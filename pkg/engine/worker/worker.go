package worker

import (
	"context"
	"encoding/json"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/joripage/matching-core/pkg/engine/model"
	"github.com/joripage/matching-core/pkg/engine/repo"
)

// Worker drains journaled events off JetStream and persists them. Event ids
// are primary keys, so redelivered messages are deduplicated by the insert.
type Worker struct {
	order      repo.IOrder
	orderEvent repo.IOrderEvent
	log        *zap.SugaredLogger
}

func NewWorker(repo repo.IRepo) *Worker {
	return &Worker{
		order:      repo.Order(),
		orderEvent: repo.OrderEvent(),
		log:        zap.S(),
	}
}

func (w *Worker) StartConsumer(ctx context.Context, js nats.JetStreamContext, subject, durable string) error {
	cons, err := js.PullSubscribe(subject, durable)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msgs, err := cons.Fetch(10, nats.Context(ctx))
		if err != nil {
			if err == context.Canceled || err == context.DeadlineExceeded {
				return nil
			}
			if err != nats.ErrTimeout {
				w.log.Warnw("fetch fail", "err", err)
			}
			continue
		}

		for _, msg := range msgs {
			var ev model.OrderEvent
			if err := json.Unmarshal(msg.Data, &ev); err != nil {
				w.log.Warnw("unmarshal fail", "err", err)
				_ = msg.Ack() // poison message, drop it
				continue
			}
			if err := w.handleEvent(ctx, &ev); err != nil {
				w.log.Warnw("handle event fail", "eventID", ev.EventID, "err", err)
				continue // no ack, redeliver
			}
			_ = msg.Ack()
		}
	}
}

func (w *Worker) handleEvent(ctx context.Context, ev *model.OrderEvent) error {
	if _, err := w.orderEvent.Create(ctx, ev); err != nil {
		return err
	}
	return w.updateOrderProjection(ctx, ev)
}

// updateOrderProjection folds the event into the one-row-per-order view.
func (w *Worker) updateOrderProjection(ctx context.Context, ev *model.OrderEvent) error {
	record, err := w.order.GetByExchangeOrderID(ctx, ev.Symbol, ev.ExchangeOrderID)
	if err != nil {
		record = &model.Order{
			ExchangeOrderID: ev.ExchangeOrderID,
			Symbol:          ev.Symbol,
			ClientID:        ev.ClientID,
			ClientOrderID:   ev.ClientOrderID,
			Side:            ev.Side,
			Type:            ev.Type,
			TimeInForce:     ev.TimeInForce,
		}
	}

	applyEvent(record, ev)

	_, err = w.order.Upsert(ctx, record)
	return err
}

func decimalFromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func decimalFromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func applyEvent(record *model.Order, ev *model.OrderEvent) {
	record.Price = decimalFromFloat(ev.Price)
	record.CumQuantity = decimalFromInt(ev.ExecutedSize)
	record.OpenQuantity = decimalFromInt(ev.OpenSize)
	record.Quantity = decimalFromInt(ev.OpenSize + ev.ExecutedSize + ev.CanceledSize)
	record.TransactTime = ev.Timestamp

	switch ev.EventType {
	case model.EventTypeAccepted:
		record.Status = model.OrderStatusNew
	case model.EventTypeExecuted:
		record.LastQuantity = decimalFromInt(ev.ExecuteSize)
		record.LastPrice = decimalFromFloat(ev.ExecutePrice)
		if ev.OpenSize == 0 {
			record.Status = model.OrderStatusFilled
		} else {
			record.Status = model.OrderStatusPartiallyFilled
		}
	case model.EventTypeCanceled:
		if ev.Reason == "EXPIRED" {
			record.Status = model.OrderStatusExpired
		} else {
			record.Status = model.OrderStatusCanceled
		}
	case model.EventTypeRejected:
		record.Status = model.OrderStatusRejected
	}
}
