package engine

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"

	"github.com/joripage/matching-core/pkg/engine/model"
)

// NatsPublisher pushes events to a JetStream subject for the persistence
// worker to drain.
type NatsPublisher struct {
	js      nats.JetStreamContext
	subject string
}

func NewNatsPublisher(js nats.JetStreamContext, stream, subject string) (*NatsPublisher, error) {
	_, err := js.AddStream(&nats.StreamConfig{
		Name:     stream,
		Subjects: []string{subject},
	})
	if err != nil && err != nats.ErrStreamNameAlreadyInUse {
		return nil, err
	}
	return &NatsPublisher{js: js, subject: subject}, nil
}

func (p *NatsPublisher) PublishEvent(ctx context.Context, ev *model.OrderEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(p.subject, data, nats.MsgId(ev.EventID))
	return err
}
