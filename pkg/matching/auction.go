package matching

import (
	"sort"
	"time"
)

// AuctionMatcher queues orders while the security is in auction mode and
// uncrosses both queues at a single clearing price on state change.
type AuctionMatcher struct {
	controls *ControlChain
}

func NewAuctionMatcher(controls *ControlChain) *AuctionMatcher {
	return &AuctionMatcher{controls: controls}
}

// Execute queues the order for the next uncrossing. Buy orders reserve their
// full value up front; the uncross later refunds the limit/clearing
// difference per trade.
func (m *AuctionMatcher) Execute(sec *Security, order *Order) *MatchResult {
	if order.Side == BUY {
		if !order.Broker.HasEnoughCredit(order.Value()) {
			return NotEnoughCredit()
		}
		order.Broker.DecreaseCreditBy(order.Value())
	}
	sec.OrderBook.Enqueue(order)
	openingPrice, tradableQuantity := m.ComputeOpeningState(sec)
	return QueuedInAuction(order, sec.LastTradedPrice, tradableQuantity, openingPrice)
}

// ComputeOpeningState finds the clearing price maximizing the tradable
// quantity min(cumulative buys at or above, cumulative sells at or below).
// Ties go to the candidate closest to the last traded price, then to the
// lower price; the ascending candidate scan makes both deterministic.
func (m *AuctionMatcher) ComputeOpeningState(sec *Security) (openingPrice, tradableQuantity int64) {
	candidates := candidatePrices(sec.OrderBook)
	openingPrice = NoOpeningPrice
	for _, price := range candidates {
		quantity := min(
			quantityWillingToBuyAt(sec.OrderBook, price),
			quantityWillingToSellAt(sec.OrderBook, price),
		)
		if quantity == 0 {
			continue
		}
		if quantity > tradableQuantity ||
			(quantity == tradableQuantity && distance(price, sec.LastTradedPrice) < distance(openingPrice, sec.LastTradedPrice)) {
			openingPrice = price
			tradableQuantity = quantity
		}
	}
	return openingPrice, tradableQuantity
}

// Uncross executes all crossing interest at the single clearing price,
// consuming from the front of both queues in priority order. Nothing here
// can fail: buyers prepaid at entry and sellers were position-checked, so
// no rollback path exists.
func (m *AuctionMatcher) Uncross(sec *Security) *MatchResult {
	openingPrice, tradableQuantity := m.ComputeOpeningState(sec)
	if tradableQuantity == 0 {
		return AuctionExecuted(nil, sec.LastTradedPrice, 0, NoOpeningPrice)
	}

	ctx := &MatchContext{Security: sec}
	book := sec.OrderBook
	for {
		buy, sell := book.First(BUY), book.First(SELL)
		if buy == nil || sell == nil || buy.Price < openingPrice || sell.Price > openingPrice {
			break
		}
		quantity := min(buy.TradableQuantity(), sell.TradableQuantity())
		trade := NewTrade(sec.ISIN, openingPrice, quantity, buy, sell, time.Now())
		ctx.Trades = append(ctx.Trades, trade)
		ctx.TradedQuantity += quantity
		m.controls.TradeAccepted(ctx, trade)

		buy.DecreaseQuantity(quantity)
		sell.DecreaseQuantity(quantity)
		for _, o := range []*Order{buy, sell} {
			if o.TradableQuantity() == 0 {
				book.RemoveFirst(o.Side)
				if o.NeedsReplenish() {
					o.Replenish(time.Now())
					book.Enqueue(o)
				}
			}
		}
	}
	m.controls.MatchingAccepted(ctx)

	return AuctionExecuted(ctx.Trades, openingPrice, tradableQuantity, openingPrice)
}

func candidatePrices(book *OrderBook) []int64 {
	seen := make(map[int64]struct{})
	var prices []int64
	for i := 0; i < book.buy.Len(); i++ {
		seen[book.buy.At(i).Price] = struct{}{}
	}
	for i := 0; i < book.sell.Len(); i++ {
		seen[book.sell.At(i).Price] = struct{}{}
	}
	for price := range seen {
		prices = append(prices, price)
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i] < prices[j] })
	return prices
}

// Cumulative quantities include hidden iceberg remainders: the uncross loop
// replenishes slices until the full quantity has traded.
func quantityWillingToBuyAt(book *OrderBook, price int64) int64 {
	var total int64
	for i := 0; i < book.buy.Len(); i++ {
		if o := book.buy.At(i); o.Price >= price {
			total += o.Quantity
		}
	}
	return total
}

func quantityWillingToSellAt(book *OrderBook, price int64) int64 {
	var total int64
	for i := 0; i < book.sell.Len(); i++ {
		if o := book.sell.At(i); o.Price <= price {
			total += o.Quantity
		}
	}
	return total
}

func distance(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}
