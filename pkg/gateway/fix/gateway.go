package fixgateway

import (
	"context"
	"log"
	"sync"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/quickfix"

	"github.com/openvenue/matching-core/pkg/core"
	"github.com/openvenue/matching-core/pkg/event"
	"github.com/openvenue/matching-core/pkg/matching"
)

// FixGateway bridges FIX 4.4 order entry onto the matching engine. Account
// carries the broker id and SenderSubID the shareholder id. Prices and
// quantities arrive as integral decimals.
type FixGateway struct {
	cfg    *FixGatewayConfig
	app    *Application
	engine *core.Engine

	requestMapping sync.Map // ClOrdID -> *liveOrder
}

type FixGatewayConfig struct {
	ConfigFilepath string
}

// liveOrder is the per-order state needed to build execution reports.
type liveOrder struct {
	sessionID *quickfix.SessionID
	symbol    string
	account   string
	side      enum.Side
	orderQty  int64
	cumQty    int64
}

func NewFixGateway(cfg *FixGatewayConfig) *FixGateway {
	fm := &FixGateway{
		cfg:            cfg,
		requestMapping: sync.Map{},
	}

	return fm
}

func (s *FixGateway) AddEngine(e *core.Engine) {
	s.engine = e
}

func (s *FixGateway) Start(ctx context.Context) error {
	app, err := startApp(s.cfg.ConfigFilepath, s)
	if err != nil {
		log.Printf("start app err=%v", err)
		return err
	}
	s.app = app
	return nil
}

func (s *FixGateway) Stop() {
	if s.app != nil {
		stopApp(s.app)
	}
}

var sideMapping = map[enum.Side]matching.Side{
	enum.Side_BUY:  matching.BUY,
	enum.Side_SELL: matching.SELL,
}

func (s *FixGateway) AddOrder(ctx context.Context, newOrderSingle *NewOrderSingle) {
	s.requestMapping.Store(newOrderSingle.ClOrdID, &liveOrder{
		sessionID: newOrderSingle.SessionID,
		symbol:    newOrderSingle.Symbol,
		account:   newOrderSingle.Account,
		side:      newOrderSingle.Side,
		orderQty:  newOrderSingle.OrderQty.IntPart(),
	})

	events := s.engine.AddOrder(ctx, &core.AddOrderRequest{
		RequestID:     newOrderSingle.ClOrdID,
		ISIN:          newOrderSingle.Symbol,
		Side:          sideMapping[newOrderSingle.Side],
		Quantity:      newOrderSingle.OrderQty.IntPart(),
		Price:         newOrderSingle.Price.IntPart(),
		MinExecQty:    newOrderSingle.MinQty.IntPart(),
		PeakSize:      newOrderSingle.MaxFloor.IntPart(),
		StopPrice:     newOrderSingle.StopPx.IntPart(),
		BrokerID:      newOrderSingle.Account,
		ShareholderID: newOrderSingle.SenderSubID,
		EntryTime:     newOrderSingle.TransactTime,
	})
	s.reportEvents(newOrderSingle.ClOrdID, "", events)
}

func (s *FixGateway) ModifyOrder(ctx context.Context, req *OrderCancelReplaceRequest) {
	if prev, ok := s.requestMapping.Load(req.OrigClOrdID); ok {
		order := prev.(*liveOrder)
		s.requestMapping.Store(req.ClOrdID, &liveOrder{
			sessionID: req.SessionID,
			symbol:    req.Symbol,
			account:   order.account,
			side:      req.Side,
			orderQty:  req.OrderQty.IntPart(),
			cumQty:    order.cumQty,
		})
	}

	events := s.engine.ModifyOrder(ctx, &core.ModifyOrderRequest{
		RequestID:     req.ClOrdID,
		OrigRequestID: req.OrigClOrdID,
		ISIN:          req.Symbol,
		Side:          sideMapping[req.Side],
		Quantity:      req.OrderQty.IntPart(),
		Price:         req.Price.IntPart(),
		MinExecQty:    req.MinQty.IntPart(),
		PeakSize:      req.MaxFloor.IntPart(),
		StopPrice:     req.StopPx.IntPart(),
		EntryTime:     req.TransactTime,
	})
	s.reportEvents(req.ClOrdID, req.OrigClOrdID, events)
}

func (s *FixGateway) CancelOrder(ctx context.Context, req *OrderCancelRequest) {
	if prev, ok := s.requestMapping.Load(req.OrigClOrdID); ok {
		s.requestMapping.Store(req.ClOrdID, prev)
	}

	events := s.engine.CancelOrder(ctx, &core.CancelOrderRequest{
		RequestID:     req.ClOrdID,
		OrigRequestID: req.OrigClOrdID,
		ISIN:          req.Symbol,
		Side:          sideMapping[req.Side],
	})
	s.reportEvents(req.ClOrdID, req.OrigClOrdID, events)
}

// reportEvents turns the engine's event stream for one request into
// execution reports on the originating session.
func (s *FixGateway) reportEvents(clOrdID, origClOrdID string, events []*event.Event) {
	loaded, ok := s.requestMapping.Load(clOrdID)
	if !ok {
		return
	}
	order := loaded.(*liveOrder)
	if order.sessionID == nil {
		return
	}

	for _, ev := range events {
		if ev.RequestID != clOrdID {
			continue
		}
		if ev.Type == event.TypeOrderRejected {
			s.requestMapping.Delete(clOrdID)
		}
		if err := sendExecutionReport(clOrdID, origClOrdID, order, ev); err != nil {
			log.Printf("send err=%v", err)
		}
	}
}
