package quotecache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/joripage/matching-core/pkg/fixedpoint"
	"github.com/joripage/matching-core/pkg/matching"
)

// Quote is the top-of-book snapshot published after every book mutation.
type Quote struct {
	Symbol   string
	BidPrice float64
	BidSize  int64
	AskPrice float64
	AskSize  int64
	State    string
	Time     time.Time
}

// Cache keeps the latest top of book per symbol in a redis hash so read-side
// services never touch the engine.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func key(symbol string) string {
	return "quote:" + symbol
}

// Publish snapshots the book's top and writes it through. Empty sides are
// written as zero price/size.
func (c *Cache) Publish(ctx context.Context, book *matching.OrderBook) error {
	q := Quote{
		Symbol: book.Security(),
		State:  book.State().String(),
		Time:   time.Now(),
	}
	if book.HasBestBid() {
		q.BidPrice = fixedpoint.ToDouble(book.BestBidPrice())
		q.BidSize = book.BestBidSize()
	}
	if book.HasBestAsk() {
		q.AskPrice = fixedpoint.ToDouble(book.BestAskPrice())
		q.AskSize = book.BestAskSize()
	}

	k := key(q.Symbol)
	pipe := c.client.Pipeline()
	pipe.HSet(ctx, k, map[string]interface{}{
		"bid_price": q.BidPrice,
		"bid_size":  q.BidSize,
		"ask_price": q.AskPrice,
		"ask_size":  q.AskSize,
		"state":     q.State,
		"time":      q.Time.UnixNano(),
	})
	if c.ttl > 0 {
		pipe.Expire(ctx, k, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		zap.S().Warnf("publish quote %s fail: %v", q.Symbol, err)
		return err
	}
	return nil
}

func (c *Cache) Get(ctx context.Context, symbol string) (*Quote, error) {
	vals, err := c.client.HGetAll(ctx, key(symbol)).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}

	q := &Quote{Symbol: symbol, State: vals["state"]}
	q.BidPrice, _ = strconv.ParseFloat(vals["bid_price"], 64)
	q.AskPrice, _ = strconv.ParseFloat(vals["ask_price"], 64)
	q.BidSize, _ = strconv.ParseInt(vals["bid_size"], 10, 64)
	q.AskSize, _ = strconv.ParseInt(vals["ask_size"], 10, 64)
	if ns, err := strconv.ParseInt(vals["time"], 10, 64); err == nil {
		q.Time = time.Unix(0, ns)
	}
	return q, nil
}
