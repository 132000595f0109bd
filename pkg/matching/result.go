package matching

type MatchingOutcome string

const (
	OutcomeExecuted                            MatchingOutcome = "Executed"
	OutcomeNotEnoughCredit                     MatchingOutcome = "NotEnoughCredit"
	OutcomeNotEnoughPositions                  MatchingOutcome = "NotEnoughPositions"
	OutcomeNotEnoughTradedQuantity             MatchingOutcome = "NotEnoughTradedQuantity"
	OutcomeQueuedInAuction                     MatchingOutcome = "QueuedInAuction"
	OutcomeStopOrdersCannotEnterAuctions       MatchingOutcome = "StopOrdersCannotEnterAuctions"
	OutcomeOrdersInAuctionCannotHaveMinExecQty MatchingOutcome = "OrdersInAuctionCannotHaveMinExecQty"
)

// NoOpeningPrice is the sentinel opening price when no quantity can cross.
const NoOpeningPrice int64 = -1

// MatchResult is the immutable outcome of one matching attempt. OpeningPrice
// and TradableQuantity are zero outside auction results.
type MatchResult struct {
	Outcome          MatchingOutcome
	Remainder        *Order
	Trades           []*Trade
	LastTradedPrice  int64
	Activated        bool
	TradableQuantity int64
	OpeningPrice     int64
}

func Executed(remainder *Order, trades []*Trade, lastTradedPrice int64, activated bool) *MatchResult {
	return &MatchResult{
		Outcome:         OutcomeExecuted,
		Remainder:       remainder,
		Trades:          trades,
		LastTradedPrice: lastTradedPrice,
		Activated:       activated,
	}
}

func QueuedInAuction(remainder *Order, lastTradedPrice, tradableQuantity, openingPrice int64) *MatchResult {
	return &MatchResult{
		Outcome:          OutcomeQueuedInAuction,
		Remainder:        remainder,
		LastTradedPrice:  lastTradedPrice,
		TradableQuantity: tradableQuantity,
		OpeningPrice:     openingPrice,
	}
}

func AuctionExecuted(trades []*Trade, lastTradedPrice, tradableQuantity, openingPrice int64) *MatchResult {
	return &MatchResult{
		Outcome:          OutcomeExecuted,
		Trades:           trades,
		LastTradedPrice:  lastTradedPrice,
		TradableQuantity: tradableQuantity,
		OpeningPrice:     openingPrice,
	}
}

func Rejected(outcome MatchingOutcome) *MatchResult {
	return &MatchResult{Outcome: outcome}
}

func NotEnoughCredit() *MatchResult         { return Rejected(OutcomeNotEnoughCredit) }
func NotEnoughPositions() *MatchResult      { return Rejected(OutcomeNotEnoughPositions) }
func NotEnoughTradedQuantity() *MatchResult { return Rejected(OutcomeNotEnoughTradedQuantity) }

func (r *MatchResult) HasTrades() bool {
	return len(r.Trades) > 0
}

// TradedQuantity is the total quantity executed by this attempt.
func (r *MatchResult) TradedQuantity() int64 {
	var total int64
	for _, t := range r.Trades {
		total += t.Quantity
	}
	return total
}
