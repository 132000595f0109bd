package matching

import (
	"testing"
	"time"
)

func limitOrder(id int64, side Side, price, qty int64) *Order {
	return &Order{
		ID:            id,
		ISIN:          "IRO1TEST0001",
		Side:          side,
		Type:          LIMIT,
		Price:         price,
		Quantity:      qty,
		TotalQuantity: qty,
		Status:        OrderStatusNew,
		EntryTime:     time.Now(),
	}
}

func queueIDs(b *OrderBook, side Side) []int64 {
	q := b.queue(side)
	ids := make([]int64, 0, q.Len())
	for i := 0; i < q.Len(); i++ {
		ids = append(ids, q.At(i).ID)
	}
	return ids
}

func TestEnqueueKeepsPriceTimePriority(t *testing.T) {
	book := NewOrderBook()

	book.Enqueue(limitOrder(1, BUY, 100, 10))
	book.Enqueue(limitOrder(2, BUY, 102, 10))
	book.Enqueue(limitOrder(3, BUY, 100, 10))
	book.Enqueue(limitOrder(4, BUY, 101, 10))

	want := []int64{2, 4, 1, 3}
	got := queueIDs(book, BUY)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("buy queue order = %v, want %v", got, want)
		}
	}

	book.Enqueue(limitOrder(5, SELL, 101, 10))
	book.Enqueue(limitOrder(6, SELL, 99, 10))
	book.Enqueue(limitOrder(7, SELL, 99, 10))

	want = []int64{6, 7, 5}
	got = queueIDs(book, SELL)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sell queue order = %v, want %v", got, want)
		}
	}
}

func TestEnqueueMarksOrderQueued(t *testing.T) {
	book := NewOrderBook()
	order := limitOrder(1, BUY, 100, 10)
	book.Enqueue(order)
	if order.Status != OrderStatusQueued {
		t.Fatalf("expected status Queued, got %s", order.Status)
	}
}

func TestRemoveByOrderIDAbsentIsNoop(t *testing.T) {
	book := NewOrderBook()
	book.Enqueue(limitOrder(1, BUY, 100, 10))

	book.RemoveByOrderID(BUY, 99)
	if book.Size(BUY) != 1 {
		t.Fatalf("expected queue untouched, got size %d", book.Size(BUY))
	}

	book.RemoveByOrderID(BUY, 1)
	if book.Size(BUY) != 0 {
		t.Fatalf("expected empty queue, got size %d", book.Size(BUY))
	}
}

func TestMatchWithFirstChecksPriceCompatibility(t *testing.T) {
	book := NewOrderBook()
	book.Enqueue(limitOrder(1, SELL, 101, 10))

	if got := book.MatchWithFirst(limitOrder(2, BUY, 100, 10)); got != nil {
		t.Fatalf("expected no match below the ask, got order %d", got.ID)
	}
	if got := book.MatchWithFirst(limitOrder(3, BUY, 101, 10)); got == nil || got.ID != 1 {
		t.Fatalf("expected match with order 1, got %v", got)
	}
	// peeking must not consume
	if book.Size(SELL) != 1 {
		t.Fatalf("MatchWithFirst mutated the book")
	}
}

func TestPutBackRestoresFrontPriority(t *testing.T) {
	book := NewOrderBook()
	book.Enqueue(limitOrder(1, SELL, 100, 10))
	book.Enqueue(limitOrder(2, SELL, 100, 10))

	first := book.First(SELL)
	book.RemoveFirst(SELL)
	book.PutBack(first)

	if got := book.First(SELL); got.ID != 1 {
		t.Fatalf("expected order 1 back at the front, got %d", got.ID)
	}
}

func TestRestoreOrderReplacesRemainder(t *testing.T) {
	book := NewOrderBook()
	order := limitOrder(1, SELL, 100, 10)
	book.Enqueue(order)
	snapshot := order.Snapshot()

	order.DecreaseQuantity(6)
	book.Enqueue(limitOrder(2, SELL, 100, 5))

	book.RestoreOrder(snapshot)
	if book.Size(SELL) != 2 {
		t.Fatalf("expected 2 resting orders, got %d", book.Size(SELL))
	}
	head := book.First(SELL)
	if head.ID != 1 || head.Quantity != 10 {
		t.Fatalf("expected order 1 restored with qty 10, got id=%d qty=%d", head.ID, head.Quantity)
	}
}

func TestTotalSellQuantityByShareholder(t *testing.T) {
	book := NewOrderBook()
	holder := NewShareholder("SH1", "holder")
	other := NewShareholder("SH2", "other")

	o1 := limitOrder(1, SELL, 100, 10)
	o1.Shareholder = holder
	o2 := limitOrder(2, SELL, 101, 20)
	o2.Shareholder = holder
	o3 := limitOrder(3, SELL, 102, 40)
	o3.Shareholder = other
	b1 := limitOrder(4, BUY, 99, 80)
	b1.Shareholder = holder

	book.Enqueue(o1)
	book.Enqueue(o2)
	book.Enqueue(o3)
	book.Enqueue(b1)

	if got := book.TotalSellQuantityByShareholder(holder); got != 30 {
		t.Fatalf("expected aggregate 30, got %d", got)
	}
}
