package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/openvenue/matching-core/pkg/event"
	"github.com/openvenue/matching-core/pkg/logging"
	"github.com/openvenue/matching-core/pkg/matching"
)

// Engine owns every registered instrument and serializes all matching per
// instrument. It validates requests at the edge, drives the per-security
// matching aggregate, and publishes the resulting event stream.
type Engine struct {
	mu           sync.RWMutex
	instruments  map[string]*instrument
	brokers      map[string]*matching.Broker
	shareholders map[string]*matching.Shareholder

	rules     []Rule
	requests  RequestStore
	publisher event.Publisher
	refPrices *RefPriceStore
	log       *logging.Logger
	seq       atomic.Int64
}

type instrument struct {
	mu  sync.Mutex
	sec *matching.Security
}

func NewEngine(publisher event.Publisher, log *logging.Logger) *Engine {
	return &Engine{
		instruments:  make(map[string]*instrument),
		brokers:      make(map[string]*matching.Broker),
		shareholders: make(map[string]*matching.Shareholder),
		rules:        defaultRules(),
		requests:     NewInMemoryRequestStore(),
		publisher:    publisher,
		log:          log,
	}
}

// SetRefPriceStore enables last-traded-price mirroring to redis.
func (e *Engine) SetRefPriceStore(store *RefPriceStore) {
	e.refPrices = store
}

// LoadReferencePrices seeds each instrument's last traded price from redis,
// restoring stop-trigger state across a restart.
func (e *Engine) LoadReferencePrices(ctx context.Context) {
	if e.refPrices == nil {
		return
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	for isin, inst := range e.instruments {
		price, err := e.refPrices.Get(ctx, isin)
		if err != nil || price == 0 {
			continue
		}
		inst.mu.Lock()
		inst.sec.LastTradedPrice = price
		inst.mu.Unlock()
	}
}

func (e *Engine) RegisterSecurity(isin string, tickSize, lotSize int64) *matching.Security {
	e.mu.Lock()
	defer e.mu.Unlock()

	sec := matching.NewSecurity(isin, tickSize, lotSize)
	e.instruments[isin] = &instrument{sec: sec}
	return sec
}

func (e *Engine) RegisterBroker(id, name string, credit int64) *matching.Broker {
	e.mu.Lock()
	defer e.mu.Unlock()

	broker := matching.NewBroker(id, name, credit)
	e.brokers[id] = broker
	return broker
}

func (e *Engine) RegisterShareholder(id, name string) *matching.Shareholder {
	e.mu.Lock()
	defer e.mu.Unlock()

	shareholder := matching.NewShareholder(id, name)
	e.shareholders[id] = shareholder
	return shareholder
}

func (e *Engine) Security(isin string) *matching.Security {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if inst, ok := e.instruments[isin]; ok {
		return inst.sec
	}
	return nil
}

func (e *Engine) Requests() RequestStore {
	return e.requests
}

func (e *Engine) instrument(isin string) *instrument {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.instruments[isin]
}

// AddOrder validates, matches and publishes. The returned events mirror what
// was published, first event is the request's own outcome.
func (e *Engine) AddOrder(ctx context.Context, rq *AddOrderRequest) []*event.Event {
	inst := e.instrument(rq.ISIN)

	var reasons []string
	if inst == nil {
		reasons = append(reasons, ReasonUnknownSecurity)
	}
	e.mu.RLock()
	broker, brokerOK := e.brokers[rq.BrokerID]
	shareholder, shareholderOK := e.shareholders[rq.ShareholderID]
	e.mu.RUnlock()
	if !brokerOK {
		reasons = append(reasons, ReasonUnknownBroker)
	}
	if !shareholderOK {
		reasons = append(reasons, ReasonUnknownShareholder)
	}
	if rq.OrderID < 0 {
		reasons = append(reasons, ReasonInvalidOrderID)
	}
	if rq.RequestID != "" {
		if _, dup := e.requests.OrderID(rq.RequestID); dup {
			reasons = append(reasons, ReasonDuplicateRequestID)
		}
	}
	if inst != nil {
		for _, rule := range e.rules {
			reasons = append(reasons, rule.Check(rq, inst.sec)...)
		}
	}
	if len(reasons) > 0 {
		return e.publish(ctx, rejectedEvent(rq.ISIN, rq.RequestID, rq.OrderID, reasons...))
	}

	orderID := rq.OrderID
	if orderID == 0 {
		orderID = e.seq.Add(1)
	}
	entryTime := rq.EntryTime
	if entryTime.IsZero() {
		entryTime = time.Now()
	}

	inst.mu.Lock()
	result, activations := inst.sec.NewOrder(matching.EnterOrder{
		OrderID:     orderID,
		Side:        rq.Side,
		Quantity:    rq.Quantity,
		Price:       rq.Price,
		MinExecQty:  rq.MinExecQty,
		PeakSize:    rq.PeakSize,
		StopPrice:   rq.StopPrice,
		Broker:      broker,
		Shareholder: shareholder,
		EntryTime:   entryTime,
	})
	e.mirrorRefPrice(ctx, inst.sec)
	inst.mu.Unlock()

	if result.Outcome == matching.OutcomeExecuted || result.Outcome == matching.OutcomeQueuedInAuction {
		e.requests.Track(rq.RequestID, orderID, "")
	}
	return e.publish(ctx, resultEvents(rq.ISIN, rq.RequestID, orderID, event.TypeOrderAccepted, result, activations)...)
}

func (e *Engine) CancelOrder(ctx context.Context, rq *CancelOrderRequest) []*event.Event {
	inst := e.instrument(rq.ISIN)
	if inst == nil {
		return e.publish(ctx, rejectedEvent(rq.ISIN, rq.RequestID, rq.OrderID, ReasonUnknownSecurity))
	}
	orderID, ok := e.resolveOrderID(rq.OrderID, rq.OrigRequestID)
	if !ok {
		return e.publish(ctx, rejectedEvent(rq.ISIN, rq.RequestID, rq.OrderID, ReasonOrderNotFound))
	}

	inst.mu.Lock()
	err := inst.sec.DeleteOrder(rq.Side, orderID)
	inst.mu.Unlock()

	if err != nil {
		return e.publish(ctx, rejectedEvent(rq.ISIN, rq.RequestID, orderID, ReasonOrderNotFound))
	}
	e.requests.ForgetOrder(orderID)
	return e.publish(ctx, acceptedEvent(event.TypeOrderDeleted, rq.ISIN, rq.RequestID, orderID))
}

func (e *Engine) ModifyOrder(ctx context.Context, rq *ModifyOrderRequest) []*event.Event {
	inst := e.instrument(rq.ISIN)
	if inst == nil {
		return e.publish(ctx, rejectedEvent(rq.ISIN, rq.RequestID, rq.OrderID, ReasonUnknownSecurity))
	}
	orderID, ok := e.resolveOrderID(rq.OrderID, rq.OrigRequestID)
	if !ok {
		return e.publish(ctx, rejectedEvent(rq.ISIN, rq.RequestID, rq.OrderID, ReasonOrderNotFound))
	}
	// modifies pass the same entry checks as new orders
	check := &AddOrderRequest{
		Quantity:   rq.Quantity,
		Price:      rq.Price,
		MinExecQty: rq.MinExecQty,
		PeakSize:   rq.PeakSize,
		StopPrice:  rq.StopPrice,
	}
	var reasons []string
	for _, rule := range e.rules {
		reasons = append(reasons, rule.Check(check, inst.sec)...)
	}
	if len(reasons) > 0 {
		return e.publish(ctx, rejectedEvent(rq.ISIN, rq.RequestID, orderID, reasons...))
	}
	entryTime := rq.EntryTime
	if entryTime.IsZero() {
		entryTime = time.Now()
	}

	inst.mu.Lock()
	result, activations, err := inst.sec.UpdateOrder(matching.UpdateOrder{
		OrderID:    orderID,
		Side:       rq.Side,
		Quantity:   rq.Quantity,
		Price:      rq.Price,
		MinExecQty: rq.MinExecQty,
		PeakSize:   rq.PeakSize,
		StopPrice:  rq.StopPrice,
		EntryTime:  entryTime,
	})
	e.mirrorRefPrice(ctx, inst.sec)
	inst.mu.Unlock()

	if err != nil {
		return e.publish(ctx, rejectedEvent(rq.ISIN, rq.RequestID, orderID, updateErrorReason(err)))
	}
	if result.Outcome == matching.OutcomeExecuted || result.Outcome == matching.OutcomeQueuedInAuction {
		e.requests.Track(rq.RequestID, orderID, rq.OrigRequestID)
	}
	return e.publish(ctx, resultEvents(rq.ISIN, rq.RequestID, orderID, event.TypeOrderUpdated, result, activations)...)
}

func (e *Engine) ChangeMatchingState(ctx context.Context, rq *ChangeStateRequest) []*event.Event {
	inst := e.instrument(rq.ISIN)
	if inst == nil {
		return e.publish(ctx, rejectedEvent(rq.ISIN, "", 0, ReasonUnknownSecurity))
	}

	inst.mu.Lock()
	result, activations := inst.sec.ChangeMatchingState(rq.Target)
	e.mirrorRefPrice(ctx, inst.sec)
	inst.mu.Unlock()

	stateEv := event.New(event.TypeStateChanged, rq.ISIN)
	stateEv.State = string(rq.Target)
	events := []*event.Event{stateEv}

	if result != nil && result.HasTrades() {
		tradeEv := event.New(event.TypeTradeExecuted, rq.ISIN)
		tradeEv.Trades = publishedTrades(result.Trades)
		tradeEv.OpeningPrice = result.OpeningPrice
		tradeEv.TradableQuantity = result.TradableQuantity
		events = append(events, tradeEv)
	}
	for _, act := range activations {
		events = append(events, activationEvents(rq.ISIN, act)...)
	}
	return e.publish(ctx, events...)
}

func (e *Engine) resolveOrderID(orderID int64, origRequestID string) (int64, bool) {
	if orderID != 0 {
		return orderID, true
	}
	if origRequestID == "" {
		return 0, false
	}
	return e.requests.OrderID(origRequestID)
}

func updateErrorReason(err error) string {
	switch {
	case errors.Is(err, matching.ErrOrderNotFound):
		return ReasonOrderNotFound
	case errors.Is(err, matching.ErrInvalidQuantity):
		return ReasonInvalidQuantity
	case errors.Is(err, matching.ErrInvalidPrice):
		return ReasonInvalidPrice
	case errors.Is(err, matching.ErrCannotChangeMinExecQty):
		return ReasonCannotChangeMinExecQty
	case errors.Is(err, matching.ErrPeakSizeOnNonIceberg), errors.Is(err, matching.ErrInvalidPeakSize):
		return ReasonInvalidPeakSize
	case errors.Is(err, matching.ErrStopPriceOnNonStopOrder):
		return ReasonInvalidStopPrice
	default:
		return ReasonOrderNotFound
	}
}

func (e *Engine) mirrorRefPrice(ctx context.Context, sec *matching.Security) {
	if e.refPrices == nil || sec.LastTradedPrice == 0 {
		return
	}
	if err := e.refPrices.Set(ctx, sec.ISIN, sec.LastTradedPrice); err != nil && e.log != nil {
		e.log.Warn(ctx, "mirror reference price", zap.String("isin", sec.ISIN), zap.Error(err))
	}
}

func (e *Engine) publish(ctx context.Context, events ...*event.Event) []*event.Event {
	for _, ev := range events {
		if err := e.publisher.Publish(ctx, ev); err != nil && e.log != nil {
			e.log.Error(ctx, "publish event", zap.String("event_id", ev.EventID), zap.Error(err))
		}
	}
	return events
}
