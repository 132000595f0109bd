package matching

import (
	"fmt"
	"time"
)

type Side string

const (
	BUY  Side = "BUY"
	SELL Side = "SELL"
)

func (s Side) Opposite() Side {
	if s == BUY {
		return SELL
	}
	return BUY
}

type OrderType string

const (
	LIMIT     OrderType = "LIMIT"
	ICEBERG   OrderType = "ICEBERG"
	STOPLIMIT OrderType = "STOP_LIMIT"
)

type OrderStatus string

const (
	OrderStatusNew      OrderStatus = "New"
	OrderStatusQueued   OrderStatus = "Queued"
	OrderStatusSnapshot OrderStatus = "Snapshot"
)

// Order is the resting/incoming order of a single security. The variant is
// carried in Type: ICEBERG additionally uses PeakSize/DisplayedQty, STOP_LIMIT
// uses StopPrice and converts to LIMIT on activation.
//
// Price is in integer minor-currency units, Quantity in share units.
// Quantity is the remaining total (hidden part of an iceberg included).
type Order struct {
	ID            int64
	ISIN          string
	Side          Side
	Type          OrderType
	Price         int64
	Quantity      int64
	TotalQuantity int64
	MinExecQty    int64
	Broker        *Broker
	Shareholder   *Shareholder
	EntryTime     time.Time
	Status        OrderStatus

	// iceberg only
	PeakSize     int64
	DisplayedQty int64

	// stop-limit only
	StopPrice int64
}

// Value is the funds a buying broker must hold for the whole remaining order.
func (o *Order) Value() int64 {
	return o.Price * o.Quantity
}

// TradableQuantity is the quantity available to a single matching round.
// A queued iceberg only exposes its displayed slice; an incoming iceberg
// trades with its full remaining quantity.
func (o *Order) TradableQuantity() int64 {
	if o.Type == ICEBERG && o.Status == OrderStatusQueued {
		return o.DisplayedQty
	}
	return o.Quantity
}

// CanTrade reports whether the order may sit in the regular order book.
// An untriggered stop-limit order never can.
func (o *Order) CanTrade() bool {
	return o.Type != STOPLIMIT
}

// IsTriggered tests the stop trigger against the last traded price: a buy
// activates when the market rises to or through the stop price, a sell when
// it falls to or through it.
func (o *Order) IsTriggered(lastTradedPrice int64) bool {
	if o.Type != STOPLIMIT {
		return true
	}
	if o.Side == BUY {
		return lastTradedPrice >= o.StopPrice
	}
	return lastTradedPrice <= o.StopPrice
}

// QueuesBefore orders the regular book: better price wins, equal prices keep
// arrival order because the insert scan stops at the first non-worse entry.
func (o *Order) QueuesBefore(other *Order) bool {
	if o.Side == BUY {
		return o.Price > other.Price
	}
	return o.Price < other.Price
}

// TriggersBefore orders the stop book by trigger proximity: the buy with the
// lowest stop price and the sell with the highest stop price trigger first.
func (o *Order) TriggersBefore(other *Order) bool {
	if o.Side == BUY {
		return o.StopPrice < other.StopPrice
	}
	return o.StopPrice > other.StopPrice
}

// DecreaseQuantity consumes traded quantity. Negative remainders are a
// programming defect, not a recoverable outcome.
func (o *Order) DecreaseQuantity(amount int64) {
	if o.Type == ICEBERG && o.Status == OrderStatusQueued {
		if amount > o.DisplayedQty {
			panic(fmt.Sprintf("order %d: decrease %d exceeds displayed quantity %d", o.ID, amount, o.DisplayedQty))
		}
		o.DisplayedQty -= amount
		o.Quantity -= amount
		return
	}
	if amount > o.Quantity {
		panic(fmt.Sprintf("order %d: decrease %d exceeds quantity %d", o.ID, amount, o.Quantity))
	}
	o.Quantity -= amount
	if o.Type == ICEBERG && o.DisplayedQty > o.Quantity {
		o.DisplayedQty = o.Quantity
	}
}

// NeedsReplenish reports whether a queued iceberg has exhausted its displayed
// slice while hidden quantity remains.
func (o *Order) NeedsReplenish() bool {
	return o.Type == ICEBERG && o.DisplayedQty == 0 && o.Quantity > 0
}

// Replenish exposes a fresh peak slice. The entry time is reset so the order
// re-queues behind same-price orders that arrived since its original entry.
func (o *Order) Replenish(now time.Time) {
	o.DisplayedQty = min(o.PeakSize, o.Quantity)
	o.EntryTime = now
}

// ConvertToLimit turns a triggered stop-limit order into a plain limit order
// with a fresh entry time.
func (o *Order) ConvertToLimit(now time.Time) *Order {
	converted := *o
	converted.Type = LIMIT
	converted.Status = OrderStatusNew
	converted.EntryTime = now
	return &converted
}

// Snapshot takes an independent copy used to restore state on rollback. It is
// never enqueued except during rollback and failed-update restoration.
func (o *Order) Snapshot() *Order {
	snapshot := *o
	snapshot.Status = OrderStatusSnapshot
	return &snapshot
}

// ApplyUpdate overwrites the mutable fields from an accepted update. The
// iceberg displayed slice is re-derived from the new peak and quantity.
func (o *Order) ApplyUpdate(price, quantity, peakSize, stopPrice int64) {
	o.Price = price
	o.Quantity = quantity
	o.TotalQuantity = quantity
	if o.Type == ICEBERG {
		o.PeakSize = peakSize
		o.DisplayedQty = min(peakSize, quantity)
	}
	if o.Type == STOPLIMIT {
		o.StopPrice = stopPrice
	}
}
