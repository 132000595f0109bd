package core

import (
	"time"

	"github.com/openvenue/matching-core/pkg/matching"
)

// AddOrderRequest is a validated-at-the-edge order entry. RequestID is the
// client's idempotency key (ClOrdID at the FIX boundary); OrderID zero means
// the engine assigns one. Price is in integer minor-currency units.
type AddOrderRequest struct {
	RequestID     string        `json:"request_id"`
	OrderID       int64         `json:"order_id,omitempty"`
	ISIN          string        `json:"isin"`
	Side          matching.Side `json:"side"`
	Quantity      int64         `json:"quantity"`
	Price         int64         `json:"price"`
	MinExecQty    int64         `json:"min_exec_qty,omitempty"`
	PeakSize      int64         `json:"peak_size,omitempty"`
	StopPrice     int64         `json:"stop_price,omitempty"`
	BrokerID      string        `json:"broker_id"`
	ShareholderID string        `json:"shareholder_id"`
	EntryTime     time.Time     `json:"entry_time"`
}

// CancelOrderRequest addresses the order either directly by OrderID or by
// the request id that created it.
type CancelOrderRequest struct {
	RequestID     string        `json:"request_id"`
	OrigRequestID string        `json:"orig_request_id,omitempty"`
	ISIN          string        `json:"isin"`
	Side          matching.Side `json:"side"`
	OrderID       int64         `json:"order_id,omitempty"`
}

type ModifyOrderRequest struct {
	RequestID     string        `json:"request_id"`
	OrigRequestID string        `json:"orig_request_id,omitempty"`
	ISIN          string        `json:"isin"`
	Side          matching.Side `json:"side"`
	OrderID       int64         `json:"order_id,omitempty"`
	Quantity      int64         `json:"quantity"`
	Price         int64         `json:"price"`
	MinExecQty    int64         `json:"min_exec_qty,omitempty"`
	PeakSize      int64         `json:"peak_size,omitempty"`
	StopPrice     int64         `json:"stop_price,omitempty"`
	EntryTime     time.Time     `json:"entry_time"`
}

type ChangeStateRequest struct {
	ISIN   string                `json:"isin"`
	Target matching.TradingState `json:"target"`
}
