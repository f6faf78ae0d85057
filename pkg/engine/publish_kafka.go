package engine

import (
	"context"

	kafkawrapper "github.com/joripage/matching-core/pkg/kafka_wrapper"
	"github.com/joripage/matching-core/pkg/engine/model"
)

// KafkaPublisher fans events out to a Kafka topic, keyed by symbol so one
// symbol's events stay ordered within a partition.
type KafkaPublisher struct {
	producer *kafkawrapper.Producer
	topic    string
}

func NewKafkaPublisher(producer *kafkawrapper.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishEvent(ctx context.Context, ev *model.OrderEvent) error {
	return p.producer.PublishJSON(ctx, p.topic, ev.Symbol, ev, map[string]string{
		"event_id":   ev.EventID,
		"event_type": string(ev.EventType),
	})
}
