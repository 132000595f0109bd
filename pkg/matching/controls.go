package matching

// MatchContext is the shared state a control chain operates on during one
// matching attempt. Order is nil during an auction uncross, which has no
// incoming order. Updating marks the re-match of an amended order, which is
// exempt from the minimum-execution-quantity gate.
type MatchContext struct {
	Security       *Security
	Order          *Order
	Trades         []*Trade
	TradedQuantity int64
	Updating       bool
}

func (ctx *MatchContext) inAuction() bool {
	return ctx.Security.State == AuctionState
}

// MatchingControl is one independent rule invoked around the matcher. Each
// hook may veto with a non-Executed outcome; side effects belong to the
// accepted hooks and must be applied exactly once per effective event.
type MatchingControl interface {
	CanStartMatching(ctx *MatchContext) MatchingOutcome
	CanTrade(ctx *MatchContext, trade *Trade) MatchingOutcome
	TradeAccepted(ctx *MatchContext, trade *Trade)
	CanAcceptMatching(ctx *MatchContext) MatchingOutcome
	MatchingAccepted(ctx *MatchContext)
	RollbackTrades(ctx *MatchContext)
}

// baseControl supplies no-op hooks so controls only implement what they gate.
type baseControl struct{}

func (baseControl) CanStartMatching(*MatchContext) MatchingOutcome  { return OutcomeExecuted }
func (baseControl) CanTrade(*MatchContext, *Trade) MatchingOutcome  { return OutcomeExecuted }
func (baseControl) TradeAccepted(*MatchContext, *Trade)             {}
func (baseControl) CanAcceptMatching(*MatchContext) MatchingOutcome { return OutcomeExecuted }
func (baseControl) MatchingAccepted(*MatchContext)                  {}
func (baseControl) RollbackTrades(*MatchContext)                    {}

// ControlChain invokes its controls in order and short-circuits on the first
// non-Executed outcome. Rollback runs in reverse registration order.
type ControlChain struct {
	controls []MatchingControl
}

func NewControlChain(controls ...MatchingControl) *ControlChain {
	return &ControlChain{controls: controls}
}

// DefaultControlChain wires the standard rules: position sufficiency, then
// minimum execution quantity, then credit. The order fixes which veto wins
// when several would fire.
func DefaultControlChain() *ControlChain {
	return NewControlChain(
		&PositionControl{},
		&MinimumQuantityControl{},
		&CreditControl{},
	)
}

func (c *ControlChain) CanStartMatching(ctx *MatchContext) MatchingOutcome {
	for _, ctrl := range c.controls {
		if outcome := ctrl.CanStartMatching(ctx); outcome != OutcomeExecuted {
			return outcome
		}
	}
	return OutcomeExecuted
}

func (c *ControlChain) CanTrade(ctx *MatchContext, trade *Trade) MatchingOutcome {
	for _, ctrl := range c.controls {
		if outcome := ctrl.CanTrade(ctx, trade); outcome != OutcomeExecuted {
			return outcome
		}
	}
	return OutcomeExecuted
}

func (c *ControlChain) TradeAccepted(ctx *MatchContext, trade *Trade) {
	for _, ctrl := range c.controls {
		ctrl.TradeAccepted(ctx, trade)
	}
}

func (c *ControlChain) CanAcceptMatching(ctx *MatchContext) MatchingOutcome {
	for _, ctrl := range c.controls {
		if outcome := ctrl.CanAcceptMatching(ctx); outcome != OutcomeExecuted {
			return outcome
		}
	}
	return OutcomeExecuted
}

func (c *ControlChain) MatchingAccepted(ctx *MatchContext) {
	for _, ctrl := range c.controls {
		ctrl.MatchingAccepted(ctx)
	}
}

func (c *ControlChain) RollbackTrades(ctx *MatchContext) {
	for i := len(c.controls) - 1; i >= 0; i-- {
		c.controls[i].RollbackTrades(ctx)
	}
}

// CreditControl gates and applies all broker credit movement tied to trades.
// Resting reservations for auction entry and untriggered stop orders are the
// matchers' responsibility; this control never touches them.
type CreditControl struct {
	baseControl
}

// CanTrade vetoes the trade that would exhaust the taking buyer's credit.
// Resting buyers reserved their full value when they were queued.
func (CreditControl) CanTrade(ctx *MatchContext, trade *Trade) MatchingOutcome {
	if ctx.Order == nil || ctx.Order.Side != BUY {
		return OutcomeExecuted
	}
	if !trade.BuyerHasEnoughCredit() {
		return OutcomeNotEnoughCredit
	}
	return OutcomeExecuted
}

func (CreditControl) TradeAccepted(ctx *MatchContext, trade *Trade) {
	if ctx.inAuction() {
		// Uncross: both sides rested, buyers prepaid at their limit price.
		// Settle the seller at the clearing price and refund the buyer the
		// limit/clearing difference.
		trade.IncreaseSellersCredit()
		trade.Buy.Broker.IncreaseCreditBy((trade.Buy.Price - trade.Price) * trade.Quantity)
		return
	}
	if ctx.Order.Side == BUY {
		trade.DecreaseBuyersCredit()
	}
	trade.IncreaseSellersCredit()
}

// CanAcceptMatching verifies the taking buyer can also fund the remainder
// that is about to rest.
func (CreditControl) CanAcceptMatching(ctx *MatchContext) MatchingOutcome {
	if ctx.Order == nil || ctx.Order.Side != BUY || ctx.Order.Quantity == 0 {
		return OutcomeExecuted
	}
	if !ctx.Order.Broker.HasEnoughCredit(ctx.Order.Value()) {
		return OutcomeNotEnoughCredit
	}
	return OutcomeExecuted
}

func (CreditControl) MatchingAccepted(ctx *MatchContext) {
	if ctx.Order != nil && ctx.Order.Side == BUY && ctx.Order.Quantity > 0 {
		ctx.Order.Broker.DecreaseCreditBy(ctx.Order.Value())
	}
}

func (CreditControl) RollbackTrades(ctx *MatchContext) {
	for i := len(ctx.Trades) - 1; i >= 0; i-- {
		trade := ctx.Trades[i]
		trade.DecreaseSellersCredit()
		if ctx.Order != nil && ctx.Order.Side == BUY {
			trade.IncreaseBuyersCredit()
		}
	}
}

// PositionControl rejects sell orders the shareholder cannot cover and
// applies the position transfer once a match is accepted.
type PositionControl struct {
	baseControl
}

func (PositionControl) CanStartMatching(ctx *MatchContext) MatchingOutcome {
	order := ctx.Order
	if order.Side != SELL {
		return OutcomeExecuted
	}
	open := ctx.Security.OrderBook.TotalSellQuantityByShareholder(order.Shareholder)
	if !order.Shareholder.HasEnoughPositionsOn(order.ISIN, open+order.Quantity) {
		return OutcomeNotEnoughPositions
	}
	return OutcomeExecuted
}

func (PositionControl) MatchingAccepted(ctx *MatchContext) {
	for _, trade := range ctx.Trades {
		trade.Buy.Shareholder.IncPosition(trade.ISIN, trade.Quantity)
		trade.Sell.Shareholder.DecPosition(trade.ISIN, trade.Quantity)
	}
}

// MinimumQuantityControl enforces the all-or-rollback execution threshold.
// Amend re-matches are exempt: the order already rested once.
type MinimumQuantityControl struct {
	baseControl
}

func (MinimumQuantityControl) CanAcceptMatching(ctx *MatchContext) MatchingOutcome {
	if ctx.Order == nil || ctx.Updating {
		return OutcomeExecuted
	}
	if ctx.TradedQuantity < ctx.Order.MinExecQty {
		return OutcomeNotEnoughTradedQuantity
	}
	return OutcomeExecuted
}
