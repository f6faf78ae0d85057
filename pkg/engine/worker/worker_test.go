package worker

import (
	"testing"
	"time"

	"github.com/joripage/matching-core/pkg/engine/model"
)

func TestApplyEventStatusTransitions(t *testing.T) {
	record := &model.Order{Symbol: "AAPL", ExchangeOrderID: 1}

	applyEvent(record, &model.OrderEvent{
		EventType: model.EventTypeAccepted,
		Price:     150.00, OpenSize: 100, Timestamp: time.Now(),
	})
	if record.Status != model.OrderStatusNew {
		t.Errorf("expected New, got %v", record.Status)
	}

	applyEvent(record, &model.OrderEvent{
		EventType:   model.EventTypeExecuted,
		ExecuteSize: 40, ExecutePrice: 150.00,
		Price: 150.00, OpenSize: 60, ExecutedSize: 40,
	})
	if record.Status != model.OrderStatusPartiallyFilled {
		t.Errorf("expected PartiallyFilled, got %v", record.Status)
	}
	if !record.LastQuantity.Equal(decimalFromInt(40)) {
		t.Errorf("expected last quantity 40, got %v", record.LastQuantity)
	}

	applyEvent(record, &model.OrderEvent{
		EventType:   model.EventTypeExecuted,
		ExecuteSize: 60, ExecutePrice: 150.00,
		Price: 150.00, OpenSize: 0, ExecutedSize: 100,
	})
	if record.Status != model.OrderStatusFilled {
		t.Errorf("expected Filled, got %v", record.Status)
	}
	if !record.CumQuantity.Equal(decimalFromInt(100)) {
		t.Errorf("expected cum quantity 100, got %v", record.CumQuantity)
	}
}

func TestApplyEventCancelReasons(t *testing.T) {
	record := &model.Order{}
	applyEvent(record, &model.OrderEvent{EventType: model.EventTypeCanceled, Reason: "USER"})
	if record.Status != model.OrderStatusCanceled {
		t.Errorf("expected Canceled, got %v", record.Status)
	}

	record = &model.Order{}
	applyEvent(record, &model.OrderEvent{EventType: model.EventTypeCanceled, Reason: "EXPIRED"})
	if record.Status != model.OrderStatusExpired {
		t.Errorf("expected Expired, got %v", record.Status)
	}

	record = &model.Order{}
	applyEvent(record, &model.OrderEvent{EventType: model.EventTypeRejected, Reason: "BAD_LOT"})
	if record.Status != model.OrderStatusRejected {
		t.Errorf("expected Rejected, got %v", record.Status)
	}
}

func TestApplyEventReconstructsQuantity(t *testing.T) {
	record := &model.Order{}
	applyEvent(record, &model.OrderEvent{
		EventType: model.EventTypeCanceled, Reason: "MISSED",
		OpenSize: 0, ExecutedSize: 200, CanceledSize: 2800,
	})
	if !record.Quantity.Equal(decimalFromInt(3000)) {
		t.Errorf("expected original quantity 3000, got %v", record.Quantity)
	}
}
