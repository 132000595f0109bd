package matching

import "time"

// ContinuousMatcher executes immediate price-time-priority matching of an
// incoming (or re-activated) order against the resting book, trade by trade,
// rolling every trade of the attempt back when a control vetoes.
type ContinuousMatcher struct {
	controls *ControlChain
}

func NewContinuousMatcher(controls *ControlChain) *ContinuousMatcher {
	return &ContinuousMatcher{controls: controls}
}

func (m *ContinuousMatcher) Execute(sec *Security, order *Order, updating bool) *MatchResult {
	activated := false
	if !order.CanTrade() {
		if !order.IsTriggered(sec.LastTradedPrice) {
			if order.Side == BUY {
				if !order.Broker.HasEnoughCredit(order.Value()) {
					return NotEnoughCredit()
				}
				order.Broker.DecreaseCreditBy(order.Value())
			}
			sec.StopOrderBook.Enqueue(order)
			return Executed(order, nil, sec.LastTradedPrice, false)
		}
		order = order.ConvertToLimit(time.Now())
		activated = true
	}

	ctx := &MatchContext{Security: sec, Order: order, Updating: updating}
	book := sec.OrderBook

	for order.Quantity > 0 {
		counter := book.MatchWithFirst(order)
		if counter == nil {
			break
		}
		quantity := min(order.TradableQuantity(), counter.TradableQuantity())
		buy, sell := order, counter
		if order.Side == SELL {
			buy, sell = counter, order
		}
		// Always the resting order's price: the taker never gets improvement.
		trade := NewTrade(sec.ISIN, counter.Price, quantity, buy, sell, time.Now())

		if outcome := m.controls.CanTrade(ctx, trade); outcome != OutcomeExecuted {
			m.rollback(ctx)
			return Rejected(outcome)
		}
		ctx.Trades = append(ctx.Trades, trade)
		ctx.TradedQuantity += quantity
		m.controls.TradeAccepted(ctx, trade)

		order.DecreaseQuantity(quantity)
		counter.DecreaseQuantity(quantity)
		if counter.TradableQuantity() == 0 {
			book.RemoveFirst(counter.Side)
			if counter.NeedsReplenish() {
				counter.Replenish(time.Now())
				book.Enqueue(counter)
			}
		}
	}

	if outcome := m.controls.CanAcceptMatching(ctx); outcome != OutcomeExecuted {
		m.rollback(ctx)
		return Rejected(outcome)
	}
	m.controls.MatchingAccepted(ctx)

	var remainder *Order
	if order.Quantity > 0 {
		book.Enqueue(order)
		remainder = order
	}

	lastTradedPrice := sec.LastTradedPrice
	if len(ctx.Trades) > 0 {
		lastTradedPrice = ctx.Trades[len(ctx.Trades)-1].Price
	}
	return Executed(remainder, ctx.Trades, lastTradedPrice, activated)
}

// rollback undoes every trade of this attempt, last trade first, so front
// insertion of the pre-trade snapshots restores the exact pre-match queues.
func (m *ContinuousMatcher) rollback(ctx *MatchContext) {
	m.controls.RollbackTrades(ctx)
	book := ctx.Security.OrderBook
	for i := len(ctx.Trades) - 1; i >= 0; i-- {
		trade := ctx.Trades[i]
		if ctx.Order.Side == BUY {
			book.RestoreOrder(trade.Sell)
		} else {
			book.RestoreOrder(trade.Buy)
		}
	}
}
