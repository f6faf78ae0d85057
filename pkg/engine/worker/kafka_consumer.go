package worker

import (
	"context"
	"encoding/json"

	"github.com/joripage/matching-core/pkg/engine/model"
	kafkawrapper "github.com/joripage/matching-core/pkg/kafka_wrapper"
)

// StartKafkaConsumer persists events published to Kafka instead of JetStream.
// Batches go through BulkCreate; duplicate event ids are dropped on insert.
func (w *Worker) StartKafkaConsumer(ctx context.Context, cfg kafkawrapper.ConsumerConfig) error {
	cg, err := kafkawrapper.NewConsumerGroup(cfg)
	if err != nil {
		return err
	}
	defer cg.Close()

	return cg.Run(ctx, func(ctx context.Context, msgs []kafkawrapper.Message) error {
		events := make([]*model.OrderEvent, 0, len(msgs))
		for _, m := range msgs {
			var ev model.OrderEvent
			if err := json.Unmarshal(m.Value, &ev); err != nil {
				w.log.Warnw("unmarshal fail", "topic", m.Topic, "offset", m.Offset, "err", err)
				continue
			}
			events = append(events, &ev)
		}
		if len(events) == 0 {
			return nil
		}

		if _, err := w.orderEvent.BulkCreate(ctx, events); err != nil {
			return err
		}
		for _, ev := range events {
			if err := w.updateOrderProjection(ctx, ev); err != nil {
				return err
			}
		}
		return nil
	})
}
