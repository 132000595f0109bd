package matching

import "time"

type TradingState string

const (
	ContinuousState TradingState = "CONTINUOUS"
	AuctionState    TradingState = "AUCTION"
)

// Security is the per-instrument aggregate: it owns the order book, the stop
// order book, the trading state and the last traded / opening prices, and
// orchestrates order entry, update, deletion and stop activation atop the
// matchers and the control chain.
//
// All methods must run under the caller's per-instrument serialization; the
// aggregate itself holds no lock.
type Security struct {
	ISIN     string
	TickSize int64
	LotSize  int64

	State           TradingState
	LastTradedPrice int64
	OpeningPrice    int64

	OrderBook     *OrderBook
	StopOrderBook *StopOrderBook

	controls   *ControlChain
	continuous *ContinuousMatcher
	auction    *AuctionMatcher
}

func NewSecurity(isin string, tickSize, lotSize int64) *Security {
	controls := DefaultControlChain()
	return &Security{
		ISIN:          isin,
		TickSize:      tickSize,
		LotSize:       lotSize,
		State:         ContinuousState,
		OpeningPrice:  NoOpeningPrice,
		OrderBook:     NewOrderBook(),
		StopOrderBook: NewStopOrderBook(),
		controls:      controls,
		continuous:    NewContinuousMatcher(controls),
		auction:       NewAuctionMatcher(controls),
	}
}

// EnterOrder carries the validated parameters of an order entry. The variant
// is derived from the optional fields: a stop price makes a stop-limit order,
// a peak size an iceberg, otherwise a plain limit order.
type EnterOrder struct {
	OrderID     int64
	Side        Side
	Quantity    int64
	Price       int64
	MinExecQty  int64
	PeakSize    int64
	StopPrice   int64
	Broker      *Broker
	Shareholder *Shareholder
	EntryTime   time.Time
}

// UpdateOrder carries the validated parameters of an order amendment.
// MinExecQty, PeakSize applicability and StopPrice applicability must match
// the resting order; they cannot be changed.
type UpdateOrder struct {
	OrderID    int64
	Side       Side
	Quantity   int64
	Price      int64
	MinExecQty int64
	PeakSize   int64
	StopPrice  int64
	EntryTime  time.Time
}

// StopActivation is one stop order that triggered during a cascade, with the
// result of matching its converted form.
type StopActivation struct {
	StopOrderID int64
	Result      *MatchResult
}

// NewOrder runs the full entry flow: mode-compatibility rejections, control
// pre-checks, matching by the active mode, then the stop activation cascade.
func (s *Security) NewOrder(rq EnterOrder) (*MatchResult, []*StopActivation) {
	order := s.buildOrder(rq)

	if s.State == AuctionState {
		if order.Type == STOPLIMIT {
			return Rejected(OutcomeStopOrdersCannotEnterAuctions), nil
		}
		if order.MinExecQty > 0 {
			return Rejected(OutcomeOrdersInAuctionCannotHaveMinExecQty), nil
		}
	}

	ctx := &MatchContext{Security: s, Order: order}
	if outcome := s.controls.CanStartMatching(ctx); outcome != OutcomeExecuted {
		return Rejected(outcome), nil
	}

	result := s.execute(order, false)
	s.applyResult(result)

	var activations []*StopActivation
	if s.State == ContinuousState && result.HasTrades() {
		activations = s.activateStopOrders()
	}
	return result, activations
}

// DeleteOrder removes the order from whichever book holds it, releasing the
// reserved buy-side credit.
func (s *Security) DeleteOrder(side Side, orderID int64) error {
	if order := s.OrderBook.FindByOrderID(side, orderID); order != nil {
		if order.Side == BUY {
			order.Broker.IncreaseCreditBy(order.Value())
		}
		s.OrderBook.RemoveByOrderID(side, orderID)
		return nil
	}
	if order := s.StopOrderBook.FindByOrderID(side, orderID); order != nil {
		if order.Side == BUY {
			order.Broker.IncreaseCreditBy(order.Value())
		}
		s.StopOrderBook.RemoveByOrderID(side, orderID)
		return nil
	}
	return ErrOrderNotFound
}

// UpdateOrder amends a resting order. Changes that keep price-time priority
// apply in place; everything else re-submits through the matcher, restoring
// the original snapshot when the re-match is refused.
func (s *Security) UpdateOrder(rq UpdateOrder) (*MatchResult, []*StopActivation, error) {
	if rq.Quantity <= 0 {
		return nil, nil, ErrInvalidQuantity
	}
	if rq.Price <= 0 {
		return nil, nil, ErrInvalidPrice
	}

	inStopBook := false
	order := s.OrderBook.FindByOrderID(rq.Side, rq.OrderID)
	if order == nil {
		order = s.StopOrderBook.FindByOrderID(rq.Side, rq.OrderID)
		inStopBook = order != nil
	}
	if order == nil {
		return nil, nil, ErrOrderNotFound
	}

	if rq.MinExecQty != order.MinExecQty {
		return nil, nil, ErrCannotChangeMinExecQty
	}
	if order.Type != ICEBERG && rq.PeakSize != 0 {
		return nil, nil, ErrPeakSizeOnNonIceberg
	}
	if order.Type == ICEBERG && rq.PeakSize <= 0 {
		return nil, nil, ErrInvalidPeakSize
	}
	if order.Type != STOPLIMIT && rq.StopPrice != 0 {
		return nil, nil, ErrStopPriceOnNonStopOrder
	}

	if inStopBook {
		return s.updateStopOrder(order, rq)
	}

	losesPriority := rq.Quantity > order.Quantity ||
		rq.Price != order.Price ||
		(order.Type == ICEBERG && rq.PeakSize > order.PeakSize)

	if !losesPriority {
		if order.Side == BUY {
			order.Broker.IncreaseCreditBy(order.Value())
			order.ApplyUpdate(rq.Price, rq.Quantity, rq.PeakSize, rq.StopPrice)
			order.Broker.DecreaseCreditBy(order.Value())
		} else {
			order.ApplyUpdate(rq.Price, rq.Quantity, rq.PeakSize, rq.StopPrice)
		}
		return Executed(order, nil, s.LastTradedPrice, false), nil, nil
	}

	original := order.Snapshot()
	if order.Side == BUY {
		order.Broker.IncreaseCreditBy(order.Value())
	}
	s.OrderBook.RemoveByOrderID(order.Side, order.ID)
	order.Status = OrderStatusNew
	order.ApplyUpdate(rq.Price, rq.Quantity, rq.PeakSize, rq.StopPrice)
	order.EntryTime = rq.EntryTime

	ctx := &MatchContext{Security: s, Order: order, Updating: true}
	if outcome := s.controls.CanStartMatching(ctx); outcome != OutcomeExecuted {
		s.restoreOriginal(original)
		return Rejected(outcome), nil, nil
	}
	result := s.execute(order, true)
	if result.Outcome != OutcomeExecuted && result.Outcome != OutcomeQueuedInAuction {
		s.restoreOriginal(original)
		return result, nil, nil
	}
	s.applyResult(result)

	var activations []*StopActivation
	if s.State == ContinuousState && result.HasTrades() {
		activations = s.activateStopOrders()
	}
	return result, activations, nil
}

// ChangeMatchingState uncrosses the auction book when leaving (or
// re-entering) auction mode, then flips the state; uncross trades can set off
// the stop cascade under the new state's matcher.
func (s *Security) ChangeMatchingState(target TradingState) (*MatchResult, []*StopActivation) {
	var result *MatchResult
	if s.State == AuctionState {
		result = s.auction.Uncross(s)
		s.applyResult(result)
	}
	s.State = target

	var activations []*StopActivation
	if result != nil && result.HasTrades() {
		activations = s.activateStopOrders()
	}
	return result, activations
}

func (s *Security) buildOrder(rq EnterOrder) *Order {
	order := &Order{
		ID:            rq.OrderID,
		ISIN:          s.ISIN,
		Side:          rq.Side,
		Type:          LIMIT,
		Price:         rq.Price,
		Quantity:      rq.Quantity,
		TotalQuantity: rq.Quantity,
		MinExecQty:    rq.MinExecQty,
		Broker:        rq.Broker,
		Shareholder:   rq.Shareholder,
		EntryTime:     rq.EntryTime,
		Status:        OrderStatusNew,
	}
	switch {
	case rq.StopPrice > 0:
		order.Type = STOPLIMIT
		order.StopPrice = rq.StopPrice
	case rq.PeakSize > 0:
		order.Type = ICEBERG
		order.PeakSize = rq.PeakSize
		order.DisplayedQty = min(rq.PeakSize, rq.Quantity)
	}
	return order
}

func (s *Security) execute(order *Order, updating bool) *MatchResult {
	if s.State == AuctionState {
		return s.auction.Execute(s, order)
	}
	return s.continuous.Execute(s, order, updating)
}

func (s *Security) applyResult(result *MatchResult) {
	if result.HasTrades() {
		s.LastTradedPrice = result.Trades[len(result.Trades)-1].Price
	}
	if result.OpeningPrice != 0 {
		s.OpeningPrice = result.OpeningPrice
	}
}

// restoreOriginal puts a failed update's snapshot back: it re-queues at the
// back of its price level and the buy-side reservation is taken again.
func (s *Security) restoreOriginal(original *Order) {
	s.OrderBook.Enqueue(original)
	if original.Side == BUY {
		original.Broker.DecreaseCreditBy(original.Value())
	}
}

func (s *Security) updateStopOrder(order *Order, rq UpdateOrder) (*MatchResult, []*StopActivation, error) {
	if order.Side == SELL {
		open := s.OrderBook.TotalSellQuantityByShareholder(order.Shareholder)
		if !order.Shareholder.HasEnoughPositionsOn(order.ISIN, open+rq.Quantity) {
			return Rejected(OutcomeNotEnoughPositions), nil, nil
		}
	}
	if order.Side == BUY {
		order.Broker.IncreaseCreditBy(order.Value())
		if !order.Broker.HasEnoughCredit(rq.Price * rq.Quantity) {
			order.Broker.DecreaseCreditBy(order.Value())
			return NotEnoughCredit(), nil, nil
		}
	}
	s.StopOrderBook.RemoveByOrderID(order.Side, order.ID)
	order.ApplyUpdate(rq.Price, rq.Quantity, rq.PeakSize, rq.StopPrice)
	if order.Side == BUY {
		order.Broker.DecreaseCreditBy(order.Value())
	}
	s.StopOrderBook.Enqueue(order)

	var activations []*StopActivation
	if s.State == ContinuousState && order.IsTriggered(s.LastTradedPrice) {
		activations = s.activateStopOrders()
	}
	return Executed(order, nil, s.LastTradedPrice, false), activations, nil
}

// activateStopOrders drains every triggered stop order into a FIFO work list;
// each activation matches immediately and may trigger further orders, which
// are appended after the current scan's survivors.
func (s *Security) activateStopOrders() []*StopActivation {
	var out []*StopActivation
	worklist := s.drainTriggered()
	for len(worklist) > 0 {
		stopOrder := worklist[0]
		worklist = worklist[1:]

		if stopOrder.Side == BUY {
			// Release the stop-book reservation; the matcher re-reserves per
			// trade and for any resting remainder.
			stopOrder.Broker.IncreaseCreditBy(stopOrder.Value())
		}
		order := stopOrder.ConvertToLimit(time.Now())

		result := s.execute(order, false)
		result.Activated = true
		s.applyResult(result)
		out = append(out, &StopActivation{StopOrderID: stopOrder.ID, Result: result})

		if result.HasTrades() {
			worklist = append(worklist, s.drainTriggered()...)
		}
	}
	return out
}

func (s *Security) drainTriggered() []*Order {
	var orders []*Order
	for {
		order := s.StopOrderBook.FindFirstTriggered(s.LastTradedPrice)
		if order == nil {
			break
		}
		s.StopOrderBook.RemoveFirst(order.Side)
		orders = append(orders, order)
	}
	return orders
}
