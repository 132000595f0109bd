package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/openvenue/matching-core/pkg/matching"
)

const (
	numOrders = 1_000_000
	minPrice  = 10_000
	maxPrice  = 20_000
	minQty    = 1
	maxQty    = 100
)

func randomOrder(id int, broker *matching.Broker, shareholder *matching.Shareholder) matching.EnterOrder {
	side := matching.BUY
	if rand.Intn(2) == 0 {
		side = matching.SELL
	}
	price := int64(minPrice + rand.Intn(maxPrice-minPrice+1))
	qty := int64(rand.Intn(maxQty-minQty+1) + minQty)

	return matching.EnterOrder{
		OrderID:     int64(id),
		Side:        side,
		Quantity:    qty,
		Price:       price,
		Broker:      broker,
		Shareholder: shareholder,
		EntryTime:   time.Now(),
	}
}

func main() {
	sec := matching.NewSecurity("IRO1BENCH001", 1, 1)
	broker := matching.NewBroker("BENCH", "benchmark broker", 1<<62)
	shareholder := matching.NewShareholder("BENCH", "benchmark shareholder")
	shareholder.SetPosition(sec.ISIN, 1<<62)

	totalMatched := 0
	totalQty := int64(0)

	start := time.Now()
	for i := 0; i < numOrders; i++ {
		result, _ := sec.NewOrder(randomOrder(i+1, broker, shareholder))
		for _, trade := range result.Trades {
			totalMatched++
			totalQty += trade.Quantity
		}
	}

	elapsed := time.Since(start)

	fmt.Println("--------")
	fmt.Printf("Total Orders     : %d\n", numOrders)
	fmt.Printf("Total Matches    : %d\n", totalMatched)
	fmt.Printf("Total Matched Qty: %d\n", totalQty)
	fmt.Printf("Time Taken       : %s\n", elapsed)
}
