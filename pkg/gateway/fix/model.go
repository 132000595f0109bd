package fixgateway

import (
	"time"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"
)

type NewOrderSingle struct {
	SessionID *quickfix.SessionID

	Account      string
	SenderSubID  string
	ClOrdID      string
	Symbol       string
	OrdType      enum.OrdType
	Price        decimal.Decimal
	Side         enum.Side
	TransactTime time.Time
	OrderQty     decimal.Decimal

	MinQty   decimal.Decimal
	MaxFloor decimal.Decimal
	StopPx   decimal.Decimal
}

type OrderCancelRequest struct {
	SessionID *quickfix.SessionID

	OrigClOrdID  string
	ClOrdID      string
	Symbol       string
	Side         enum.Side
	TransactTime time.Time
}

type OrderCancelReplaceRequest struct {
	SessionID *quickfix.SessionID

	OrigClOrdID  string
	ClOrdID      string
	Symbol       string
	Side         enum.Side
	TransactTime time.Time
	OrderQty     decimal.Decimal
	OrdType      enum.OrdType
	Price        decimal.Decimal

	MinQty   decimal.Decimal
	MaxFloor decimal.Decimal
	StopPx   decimal.Decimal
}
