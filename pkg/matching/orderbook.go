package matching

import (
	"github.com/gammazero/deque"
)

// OrderBook keeps one price-time ordered queue per side: buys by descending
// price, sells by ascending price, ties broken by arrival. Every mutation
// preserves the sort invariant; all lookups are linear scans.
type OrderBook struct {
	buy  *deque.Deque[*Order]
	sell *deque.Deque[*Order]
}

func NewOrderBook() *OrderBook {
	return &OrderBook{
		buy:  &deque.Deque[*Order]{},
		sell: &deque.Deque[*Order]{},
	}
}

func (b *OrderBook) queue(side Side) *deque.Deque[*Order] {
	if side == BUY {
		return b.buy
	}
	return b.sell
}

// Enqueue inserts just before the first resting order the new order queues
// before, so equal-price arrivals keep FIFO order.
func (b *OrderBook) Enqueue(order *Order) {
	q := b.queue(order.Side)
	i := 0
	for ; i < q.Len(); i++ {
		if order.QueuesBefore(q.At(i)) {
			break
		}
	}
	order.Status = OrderStatusQueued
	q.Insert(i, order)
}

func (b *OrderBook) FindByOrderID(side Side, orderID int64) *Order {
	q := b.queue(side)
	for i := 0; i < q.Len(); i++ {
		if q.At(i).ID == orderID {
			return q.At(i)
		}
	}
	return nil
}

// RemoveByOrderID is a no-op when the order is absent; callers that treat
// absence as an error must check existence themselves.
func (b *OrderBook) RemoveByOrderID(side Side, orderID int64) {
	q := b.queue(side)
	for i := 0; i < q.Len(); i++ {
		if q.At(i).ID == orderID {
			q.Remove(i)
			return
		}
	}
}

func (b *OrderBook) First(side Side) *Order {
	q := b.queue(side)
	if q.Len() == 0 {
		return nil
	}
	return q.Front()
}

func (b *OrderBook) RemoveFirst(side Side) {
	b.queue(side).PopFront()
}

func (b *OrderBook) IsEmpty(side Side) bool {
	return b.queue(side).Len() == 0
}

func (b *OrderBook) Size(side Side) int {
	return b.queue(side).Len()
}

// MatchWithFirst returns the head of the opposite queue iff it is
// price-compatible with the incoming order. It never mutates the book.
func (b *OrderBook) MatchWithFirst(incoming *Order) *Order {
	head := b.First(incoming.Side.Opposite())
	if head == nil {
		return nil
	}
	if hasPriceOverlap(incoming, head) {
		return head
	}
	return nil
}

func hasPriceOverlap(a, b *Order) bool {
	if a.Side == BUY {
		return a.Price >= b.Price
	}
	return b.Price >= a.Price
}

// PutBack re-inserts at the front of the queue. Used only by rollback, which
// processes trades in reverse order so front insertion restores the exact
// pre-match priority.
func (b *OrderBook) PutBack(order *Order) {
	order.Status = OrderStatusQueued
	b.queue(order.Side).PushFront(order)
}

// RestoreOrder replaces whatever remains of the order in the queue with its
// pre-trade snapshot at the front.
func (b *OrderBook) RestoreOrder(snapshot *Order) {
	b.RemoveByOrderID(snapshot.Side, snapshot.ID)
	b.PutBack(snapshot)
}

// TotalSellQuantityByShareholder aggregates the shareholder's open sell
// interest for position-sufficiency checks.
func (b *OrderBook) TotalSellQuantityByShareholder(shareholder *Shareholder) int64 {
	var total int64
	for i := 0; i < b.sell.Len(); i++ {
		if o := b.sell.At(i); o.Shareholder == shareholder {
			total += o.Quantity
		}
	}
	return total
}
