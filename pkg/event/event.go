package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeOrderAccepted        Type = "OrderAccepted"
	TypeOrderRejected        Type = "OrderRejected"
	TypeOrderExecuted        Type = "OrderExecuted"
	TypeOrderUpdated         Type = "OrderUpdated"
	TypeOrderDeleted         Type = "OrderDeleted"
	TypeOrderActivated       Type = "OrderActivated"
	TypeTradeExecuted        Type = "TradeExecuted"
	TypeOpeningPriceComputed Type = "OpeningPriceComputed"
	TypeStateChanged         Type = "StateChanged"
)

// Trade is the published view of one execution.
type Trade struct {
	ISIN        string    `json:"isin"`
	Price       int64     `json:"price"`
	Quantity    int64     `json:"quantity"`
	BuyOrderID  int64     `json:"buy_order_id"`
	SellOrderID int64     `json:"sell_order_id"`
	ExecutedAt  time.Time `json:"executed_at"`
}

// Event is a single outbound notification of the matching engine. One order
// entry can emit several: an acceptance, its trades, then any stop
// activations it set off.
type Event struct {
	EventID   string   `json:"event_id"`
	Type      Type     `json:"type"`
	ISIN      string   `json:"isin"`
	OrderID   int64    `json:"order_id,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
	Reasons   []string `json:"reasons,omitempty"`
	Trades    []Trade  `json:"trades,omitempty"`
	// auction only
	OpeningPrice     int64 `json:"opening_price,omitempty"`
	TradableQuantity int64 `json:"tradable_quantity,omitempty"`

	State     string    `json:"state,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func New(t Type, isin string) *Event {
	return &Event{
		EventID:   uuid.New().String(),
		Type:      t,
		ISIN:      isin,
		Timestamp: time.Now(),
	}
}
