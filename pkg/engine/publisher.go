package engine

import (
	"context"

	"github.com/joripage/matching-core/pkg/engine/model"
)

// MultiPublisher fans one event out to several publishers. The first error
// wins but every publisher still gets the event.
type MultiPublisher []Publisher

func (mp MultiPublisher) PublishEvent(ctx context.Context, ev *model.OrderEvent) error {
	var firstErr error
	for _, p := range mp {
		if err := p.PublishEvent(ctx, ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
