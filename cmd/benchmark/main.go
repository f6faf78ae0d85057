package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/joripage/matching-core/pkg/fixedpoint"
	"github.com/joripage/matching-core/pkg/matching"
)

const (
	numOrders  = 1_000_000
	numClients = 100
	minPrice   = 100.0
	maxPrice   = 200.0
	minQty     = 1
	maxQty     = 100
)

type tradeCounter struct {
	matching.BookListenerAdapter
	trades int64
	qty    int64
}

func (tc *tradeCounter) OnOrderExecuted(book *matching.OrderBook, time int64, order *matching.Order, executeSide matching.ExecuteSide, executeSize, executePrice, executeID, matchID int64) {
	if executeSide == matching.MAKER {
		tc.trades++
		tc.qty += executeSize
	}
}

func main() {
	rand.Seed(time.Now().UnixNano())

	counter := &tradeCounter{}
	book := matching.NewOrderBook("ABC", matching.WithListener(counter))

	start := time.Now()
	for i := int64(1); i <= numOrders; i++ {
		side := matching.BUY
		if rand.Intn(2) == 0 {
			side = matching.SELL
		}
		price := minPrice + rand.Float64()*(maxPrice-minPrice)
		price = float64(int(price*100)) / 100 // 2 decimal places
		qty := int64(rand.Intn(maxQty-minQty+1) + minQty)

		book.CreateLimit(rand.Int63n(numClients)+1, fmt.Sprintf("ORD-%06d", i), i,
			side, qty, fixedpoint.ToLong(price), matching.GTC)
	}
	elapsed := time.Since(start)

	fmt.Println("--------")
	fmt.Printf("Total Orders     : %d\n", numOrders)
	fmt.Printf("Total Trades     : %d\n", counter.trades)
	fmt.Printf("Total Traded Qty : %d\n", counter.qty)
	fmt.Printf("Resting Orders   : %d\n", book.NumberOfOrders())
	fmt.Printf("Time Taken       : %s (%.0f orders/sec)\n", elapsed, numOrders/elapsed.Seconds())
}
