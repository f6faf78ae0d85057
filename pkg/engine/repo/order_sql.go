package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/joripage/matching-core/pkg/engine/model"
)

type OrderSQLRepo struct {
	db *gorm.DB
}

func NewOrderSQLRepo(db *gorm.DB) *OrderSQLRepo {
	return &OrderSQLRepo{
		db: db,
	}
}

func (r *OrderSQLRepo) dbWithContext(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Upsert writes the latest projection of an order, keyed by symbol and
// exchange order id.
func (r *OrderSQLRepo) Upsert(ctx context.Context, record *model.Order) (*model.Order, error) {
	err := r.dbWithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "symbol"}, {Name: "exchange_order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"cum_quantity", "open_quantity", "last_quantity", "last_price",
			"quantity", "status", "transact_time",
		}),
	}).Create(record).Error
	return record, err
}

func (r *OrderSQLRepo) GetByExchangeOrderID(ctx context.Context, symbol string, exchangeOrderID int64) (*model.Order, error) {
	var record model.Order
	err := r.dbWithContext(ctx).
		Where("symbol = ? AND exchange_order_id = ?", symbol, exchangeOrderID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *OrderSQLRepo) ListOpenBySymbol(ctx context.Context, symbol string) ([]*model.Order, error) {
	var records []*model.Order
	err := r.dbWithContext(ctx).
		Where("symbol = ? AND status IN ?", symbol, []model.OrderStatus{model.OrderStatusNew, model.OrderStatusPartiallyFilled}).
		Order("exchange_order_id").
		Find(&records).Error
	return records, err
}
