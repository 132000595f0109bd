package matching

import (
	"math"
	"testing"
	"time"
)

func stopOrder(id int64, side Side, price, qty, stopPrice int64) *Order {
	return &Order{
		ID:            id,
		ISIN:          "IRO1TEST0001",
		Side:          side,
		Type:          STOPLIMIT,
		Price:         price,
		Quantity:      qty,
		TotalQuantity: qty,
		StopPrice:     stopPrice,
		Status:        OrderStatusNew,
		EntryTime:     time.Now(),
	}
}

func TestStopBookOrdersBuysByAscendingStopPrice(t *testing.T) {
	book := NewStopOrderBook()
	book.Enqueue(stopOrder(1, BUY, 100, 10, 105))
	book.Enqueue(stopOrder(2, BUY, 100, 10, 103))
	book.Enqueue(stopOrder(3, BUY, 100, 10, 104))
	book.Enqueue(stopOrder(4, BUY, 100, 10, 103))

	want := []int64{2, 4, 3, 1}
	for i, id := range want {
		if got := book.buy.At(i).ID; got != id {
			t.Fatalf("buy stop queue position %d = order %d, want %d", i, got, id)
		}
	}
	if book.minBuyStopPrice != 103 {
		t.Fatalf("minBuyStopPrice = %d, want 103", book.minBuyStopPrice)
	}
}

func TestStopBookOrdersSellsByDescendingStopPrice(t *testing.T) {
	book := NewStopOrderBook()
	book.Enqueue(stopOrder(1, SELL, 100, 10, 95))
	book.Enqueue(stopOrder(2, SELL, 100, 10, 98))
	book.Enqueue(stopOrder(3, SELL, 100, 10, 96))

	want := []int64{2, 3, 1}
	for i, id := range want {
		if got := book.sell.At(i).ID; got != id {
			t.Fatalf("sell stop queue position %d = order %d, want %d", i, got, id)
		}
	}
	if book.maxSellStopPrice != 98 {
		t.Fatalf("maxSellStopPrice = %d, want 98", book.maxSellStopPrice)
	}
}

func TestStopBookRefreshesExtremesOnRemoval(t *testing.T) {
	book := NewStopOrderBook()
	book.Enqueue(stopOrder(1, BUY, 100, 10, 103))
	book.Enqueue(stopOrder(2, BUY, 100, 10, 105))
	book.Enqueue(stopOrder(3, SELL, 100, 10, 98))

	book.RemoveFirst(BUY)
	if book.minBuyStopPrice != 105 {
		t.Fatalf("minBuyStopPrice = %d, want 105", book.minBuyStopPrice)
	}

	book.RemoveByOrderID(SELL, 3)
	if book.maxSellStopPrice != 0 {
		t.Fatalf("maxSellStopPrice after emptying = %d, want 0", book.maxSellStopPrice)
	}

	book.RemoveByOrderID(BUY, 2)
	if book.minBuyStopPrice != math.MaxInt64 {
		t.Fatalf("minBuyStopPrice after emptying = %d, want sentinel", book.minBuyStopPrice)
	}
	if !book.IsEmpty() {
		t.Fatal("expected empty stop book")
	}
}

func TestFindFirstTriggeredPrefersSells(t *testing.T) {
	book := NewStopOrderBook()
	book.Enqueue(stopOrder(1, BUY, 100, 10, 100))
	book.Enqueue(stopOrder(2, SELL, 100, 10, 100))

	got := book.FindFirstTriggered(100)
	if got == nil || got.ID != 2 {
		t.Fatalf("expected sell stop 2 first, got %v", got)
	}
}

func TestFindFirstTriggeredThresholds(t *testing.T) {
	book := NewStopOrderBook()
	book.Enqueue(stopOrder(1, BUY, 110, 10, 105))
	book.Enqueue(stopOrder(2, SELL, 90, 10, 95))

	if got := book.FindFirstTriggered(100); got != nil {
		t.Fatalf("expected no trigger at 100, got order %d", got.ID)
	}
	if got := book.FindFirstTriggered(105); got == nil || got.ID != 1 {
		t.Fatalf("expected buy stop 1 at 105, got %v", got)
	}
	if got := book.FindFirstTriggered(95); got == nil || got.ID != 2 {
		t.Fatalf("expected sell stop 2 at 95, got %v", got)
	}
}

func TestFindFirstTriggeredEmptyBook(t *testing.T) {
	book := NewStopOrderBook()
	if got := book.FindFirstTriggered(100); got != nil {
		t.Fatalf("expected nil on empty book, got order %d", got.ID)
	}
}
