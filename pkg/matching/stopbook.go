package matching

import (
	"math"

	"github.com/gammazero/deque"
)

// StopOrderBook holds untriggered stop-limit orders, each side ordered by
// trigger proximity: buys ascending by stop price, sells descending. The
// extreme stop price per side is cached from the head after every mutation,
// so the usual no-activation case is a single comparison.
type StopOrderBook struct {
	buy  *deque.Deque[*Order]
	sell *deque.Deque[*Order]

	minBuyStopPrice  int64
	maxSellStopPrice int64
}

func NewStopOrderBook() *StopOrderBook {
	return &StopOrderBook{
		buy:              &deque.Deque[*Order]{},
		sell:             &deque.Deque[*Order]{},
		minBuyStopPrice:  math.MaxInt64,
		maxSellStopPrice: 0,
	}
}

func (b *StopOrderBook) queue(side Side) *deque.Deque[*Order] {
	if side == BUY {
		return b.buy
	}
	return b.sell
}

func (b *StopOrderBook) Enqueue(order *Order) {
	q := b.queue(order.Side)
	i := 0
	for ; i < q.Len(); i++ {
		if order.TriggersBefore(q.At(i)) {
			break
		}
	}
	order.Status = OrderStatusQueued
	q.Insert(i, order)
	b.refreshExtremes(order.Side)
}

func (b *StopOrderBook) FindByOrderID(side Side, orderID int64) *Order {
	q := b.queue(side)
	for i := 0; i < q.Len(); i++ {
		if q.At(i).ID == orderID {
			return q.At(i)
		}
	}
	return nil
}

func (b *StopOrderBook) RemoveByOrderID(side Side, orderID int64) {
	q := b.queue(side)
	for i := 0; i < q.Len(); i++ {
		if q.At(i).ID == orderID {
			q.Remove(i)
			b.refreshExtremes(side)
			return
		}
	}
}

func (b *StopOrderBook) RemoveFirst(side Side) {
	b.queue(side).PopFront()
	b.refreshExtremes(side)
}

func (b *StopOrderBook) IsEmpty() bool {
	return b.buy.Len() == 0 && b.sell.Len() == 0
}

func (b *StopOrderBook) Size(side Side) int {
	return b.queue(side).Len()
}

func (b *StopOrderBook) refreshExtremes(side Side) {
	if side == BUY {
		if b.buy.Len() == 0 {
			b.minBuyStopPrice = math.MaxInt64
		} else {
			b.minBuyStopPrice = b.buy.Front().StopPrice
		}
		return
	}
	if b.sell.Len() == 0 {
		b.maxSellStopPrice = 0
	} else {
		b.maxSellStopPrice = b.sell.Front().StopPrice
	}
}

// FindFirstTriggered returns the first stop order whose trigger the last
// traded price has reached, sells before buys, or nil. The cached extreme is
// tested first; the head's own trigger test confirms.
func (b *StopOrderBook) FindFirstTriggered(lastTradedPrice int64) *Order {
	if b.maxSellStopPrice >= lastTradedPrice && b.sell.Len() > 0 {
		if head := b.sell.Front(); head.IsTriggered(lastTradedPrice) {
			return head
		}
	}
	if b.minBuyStopPrice <= lastTradedPrice && b.buy.Len() > 0 {
		if head := b.buy.Front(); head.IsTriggered(lastTradedPrice) {
			return head
		}
	}
	return nil
}
