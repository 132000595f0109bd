package fixgateway

import (
	"strconv"
	"strings"
	"sync"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"

	"github.com/openvenue/matching-core/pkg/event"
)

// MessagePool reuses quickfix messages across execution reports.
type MessagePool struct {
	pool sync.Pool
}

func NewMessagePool() *MessagePool {
	return &MessagePool{
		pool: sync.Pool{
			New: func() interface{} {
				m := quickfix.NewMessage()
				resetMessage(m)
				return m
			},
		},
	}
}

func (mp *MessagePool) Get() *quickfix.Message {
	m := mp.pool.Get().(*quickfix.Message)
	resetMessage(m)
	return m
}

func (mp *MessagePool) Put(m *quickfix.Message) {
	resetMessage(m)
	mp.pool.Put(m)
}

func resetMessage(m *quickfix.Message) {
	m.Header.Init()
	m.Body.Init()
	m.Trailer.Init()
	m.Header.Clear()
	m.Body.Clear()
	m.Trailer.Clear()
}

var execReportPool = NewMessagePool()

// sendExecutionReport emits the FIX view of one engine event. Fills produce
// one report per trade so the counterparty sees each execution.
func sendExecutionReport(clOrdID, origClOrdID string, order *liveOrder, ev *event.Event) error {
	switch ev.Type {
	case event.TypeOrderAccepted:
		return sendReport(clOrdID, origClOrdID, order, ev, enum.ExecType_NEW, enum.OrdStatus_NEW, 0, 0, "")
	case event.TypeOrderUpdated:
		return sendReport(clOrdID, origClOrdID, order, ev, enum.ExecType_REPLACED, enum.OrdStatus_REPLACED, 0, 0, "")
	case event.TypeOrderDeleted:
		return sendReport(clOrdID, origClOrdID, order, ev, enum.ExecType_CANCELED, enum.OrdStatus_CANCELED, 0, 0, "")
	case event.TypeOrderRejected:
		return sendReport(clOrdID, origClOrdID, order, ev, enum.ExecType_REJECTED, enum.OrdStatus_REJECTED, 0, 0, strings.Join(ev.Reasons, ";"))
	case event.TypeOrderExecuted:
		for _, trade := range ev.Trades {
			order.cumQty += trade.Quantity
			status := enum.OrdStatus_PARTIALLY_FILLED
			if order.cumQty >= order.orderQty {
				status = enum.OrdStatus_FILLED
			}
			if err := sendReport(clOrdID, origClOrdID, order, ev, enum.ExecType_TRADE, status, trade.Quantity, trade.Price, ""); err != nil {
				return err
			}
		}
		return nil
	default:
		// market-wide events have no originating session
		return nil
	}
}

func sendReport(clOrdID, origClOrdID string, order *liveOrder, ev *event.Event, execType enum.ExecType, status enum.OrdStatus, lastQty, lastPx int64, text string) error {
	msg := buildReport(clOrdID, origClOrdID, order, ev, execType, status, lastQty, lastPx, text)
	err := quickfix.SendToTarget(msg, *order.sessionID)
	execReportPool.Put(msg)
	return err
}

func buildReport(clOrdID, origClOrdID string, order *liveOrder, ev *event.Event, execType enum.ExecType, status enum.OrdStatus, lastQty, lastPx int64, text string) *quickfix.Message {
	msg := execReportPool.Get()
	execReportMsg := executionreport.FromMessage(msg)

	execReportMsg.SetMsgType(enum.MsgType_EXECUTION_REPORT)
	execReportMsg.SetOrderID(strconv.FormatInt(ev.OrderID, 10))
	execReportMsg.SetExecID(ev.EventID)
	execReportMsg.SetExecType(execType)
	execReportMsg.SetOrdStatus(status)
	execReportMsg.SetSide(order.side)
	execReportMsg.SetSymbol(order.symbol)
	execReportMsg.SetAccount(order.account)

	execReportMsg.SetClOrdID(clOrdID)
	if origClOrdID != "" {
		execReportMsg.SetOrigClOrdID(origClOrdID)
	}
	execReportMsg.SetOrderQty(decimal.NewFromInt(order.orderQty), 0)
	execReportMsg.SetCumQty(decimal.NewFromInt(order.cumQty), 0)
	execReportMsg.SetLeavesQty(decimal.NewFromInt(order.orderQty-order.cumQty), 0)
	execReportMsg.SetAvgPx(decimal.Zero, 0)
	execReportMsg.SetTransactTime(ev.Timestamp)
	if lastQty > 0 {
		execReportMsg.SetLastQty(decimal.NewFromInt(lastQty), 0)
		execReportMsg.SetLastPx(decimal.NewFromInt(lastPx), 0)
	}
	if text != "" {
		execReportMsg.SetText(text)
	}

	return msg
}
