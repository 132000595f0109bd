package matching

import "time"

// Trade is the immutable record of a single match. Buy and Sell are snapshots
// of both orders taken before the trade's quantity was consumed; rollback
// re-inserts them to restore the pre-match book exactly.
type Trade struct {
	ISIN       string
	Price      int64
	Quantity   int64
	Buy        *Order
	Sell       *Order
	ExecutedAt time.Time
}

func NewTrade(isin string, price, quantity int64, buy, sell *Order, at time.Time) *Trade {
	return &Trade{
		ISIN:       isin,
		Price:      price,
		Quantity:   quantity,
		Buy:        buy.Snapshot(),
		Sell:       sell.Snapshot(),
		ExecutedAt: at,
	}
}

func (t *Trade) Value() int64 {
	return t.Price * t.Quantity
}

func (t *Trade) BuyerHasEnoughCredit() bool {
	return t.Buy.Broker.HasEnoughCredit(t.Value())
}

func (t *Trade) DecreaseBuyersCredit() {
	t.Buy.Broker.DecreaseCreditBy(t.Value())
}

func (t *Trade) IncreaseBuyersCredit() {
	t.Buy.Broker.IncreaseCreditBy(t.Value())
}

func (t *Trade) IncreaseSellersCredit() {
	t.Sell.Broker.IncreaseCreditBy(t.Value())
}

func (t *Trade) DecreaseSellersCredit() {
	t.Sell.Broker.DecreaseCreditBy(t.Value())
}

// Equal compares every field, the order snapshots by value.
func (t *Trade) Equal(other *Trade) bool {
	return t.ISIN == other.ISIN &&
		t.Price == other.Price &&
		t.Quantity == other.Quantity &&
		t.ExecutedAt.Equal(other.ExecutedAt) &&
		sameOrderSnapshot(t.Buy, other.Buy) &&
		sameOrderSnapshot(t.Sell, other.Sell)
}

func sameOrderSnapshot(a, b *Order) bool {
	return a.ID == b.ID && a.Side == b.Side && a.Price == b.Price && a.Quantity == b.Quantity
}
