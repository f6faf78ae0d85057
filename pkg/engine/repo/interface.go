package repo

import (
	"context"

	"github.com/joripage/matching-core/pkg/engine/model"
)

type IOrder interface {
	Upsert(ctx context.Context, record *model.Order) (*model.Order, error)
	GetByExchangeOrderID(ctx context.Context, symbol string, exchangeOrderID int64) (*model.Order, error)
	ListOpenBySymbol(ctx context.Context, symbol string) ([]*model.Order, error)
}

type IOrderEvent interface {
	Create(ctx context.Context, record *model.OrderEvent) (*model.OrderEvent, error)
	BulkCreate(ctx context.Context, records []*model.OrderEvent) ([]*model.OrderEvent, error)
	ListByOrder(ctx context.Context, symbol string, exchangeOrderID int64) ([]*model.OrderEvent, error)
}
