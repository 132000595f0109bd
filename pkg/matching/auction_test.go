package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuctionFixture() *fixture {
	f := newFixture()
	f.sec.State = AuctionState
	return f
}

func TestAuctionEntryQueuesAndReportsIndicativePrice(t *testing.T) {
	f := newAuctionFixture()
	f.sec.LastTradedPrice = 15500

	r1, _ := f.enterBuy(304, 15700)
	require.Equal(t, OutcomeQueuedInAuction, r1.Outcome)
	assert.Equal(t, NoOpeningPrice, r1.OpeningPrice)
	assert.Zero(t, r1.TradableQuantity)

	f.enterBuy(43, 15500)
	r3, _ := f.enterSell(65, 15600)

	require.Equal(t, OutcomeQueuedInAuction, r3.Outcome)
	assert.Equal(t, int64(15600), r3.OpeningPrice)
	assert.Equal(t, int64(65), r3.TradableQuantity)
	assert.Equal(t, int64(15600), f.sec.OpeningPrice)
}

func TestUncrossTradesAtOpeningPrice(t *testing.T) {
	f := newAuctionFixture()
	f.sec.LastTradedPrice = 15500
	buyerCredit := f.buyerBroker.Credit
	sellerCredit := f.sellerBroker.Credit

	f.enterBuy(304, 15700)
	f.enterBuy(43, 15500)
	f.enterSell(65, 15600)

	result, _ := f.sec.ChangeMatchingState(ContinuousState)

	require.NotNil(t, result)
	require.Len(t, result.Trades, 1)
	trade := result.Trades[0]
	assert.Equal(t, int64(15600), trade.Price)
	assert.Equal(t, int64(65), trade.Quantity)
	assert.Equal(t, int64(15600), f.sec.LastTradedPrice)
	assert.Equal(t, ContinuousState, f.sec.State)

	head := f.sec.OrderBook.First(BUY)
	require.NotNil(t, head)
	assert.Equal(t, int64(239), head.Quantity)
	assert.Equal(t, int64(15700), head.Price)
	assert.True(t, f.sec.OrderBook.IsEmpty(SELL))

	// buyers prepay their limit price at entry and get the clearing
	// difference back per trade
	wantBuyerCredit := buyerCredit - 304*15700 - 43*15500 + (15700-15600)*65
	assert.Equal(t, wantBuyerCredit, f.buyerBroker.Credit)
	assert.Equal(t, sellerCredit+65*15600, f.sellerBroker.Credit)
	assert.Equal(t, int64(1_000_065), f.buyer.PositionOn(testISIN))
	assert.Equal(t, int64(999_935), f.seller.PositionOn(testISIN))
}

func TestUncrossWithoutCrossingInterest(t *testing.T) {
	f := newAuctionFixture()
	f.enterBuy(100, 15400)
	f.enterSell(100, 15800)

	result, activations := f.sec.ChangeMatchingState(ContinuousState)

	require.NotNil(t, result)
	assert.Empty(t, result.Trades)
	assert.Equal(t, NoOpeningPrice, result.OpeningPrice)
	assert.Zero(t, result.TradableQuantity)
	assert.Empty(t, activations)
	assert.Equal(t, 1, f.sec.OrderBook.Size(BUY))
	assert.Equal(t, 1, f.sec.OrderBook.Size(SELL))
}

func TestOpeningPriceMaximizesTradableQuantity(t *testing.T) {
	f := newAuctionFixture()
	f.sec.LastTradedPrice = 100
	f.enterBuy(100, 105)
	f.enterBuy(100, 103)
	f.enterSell(50, 101)
	f.enterSell(100, 104)

	price, quantity := f.sec.auction.ComputeOpeningState(f.sec)

	assert.Equal(t, int64(104), price)
	assert.Equal(t, int64(100), quantity)
}

func TestOpeningPriceTieBreakPrefersCloserToLastTraded(t *testing.T) {
	f := newAuctionFixture()
	f.sec.LastTradedPrice = 108
	f.enterBuy(100, 110)
	f.enterSell(100, 90)

	price, quantity := f.sec.auction.ComputeOpeningState(f.sec)

	assert.Equal(t, int64(110), price)
	assert.Equal(t, int64(100), quantity)
}

func TestOpeningPriceTieBreakPrefersLowerPrice(t *testing.T) {
	f := newAuctionFixture()
	f.sec.LastTradedPrice = 100
	f.enterBuy(100, 110)
	f.enterSell(100, 90)

	price, _ := f.sec.auction.ComputeOpeningState(f.sec)

	assert.Equal(t, int64(90), price)
}

func TestAuctionRejectsStopLimitOrders(t *testing.T) {
	f := newAuctionFixture()

	result, activations := f.enter(EnterOrder{
		Side: BUY, Quantity: 100, Price: 15500, StopPrice: 15400,
		Broker: f.buyerBroker, Shareholder: f.buyer,
	})

	assert.Equal(t, OutcomeStopOrdersCannotEnterAuctions, result.Outcome)
	assert.Empty(t, activations)
	assert.True(t, f.sec.OrderBook.IsEmpty(BUY))
}

func TestAuctionRejectsMinExecQtyOrders(t *testing.T) {
	f := newAuctionFixture()

	result, _ := f.enter(EnterOrder{
		Side: BUY, Quantity: 100, Price: 15500, MinExecQty: 10,
		Broker: f.buyerBroker, Shareholder: f.buyer,
	})

	assert.Equal(t, OutcomeOrdersInAuctionCannotHaveMinExecQty, result.Outcome)
	assert.True(t, f.sec.OrderBook.IsEmpty(BUY))
}

func TestAuctionEntryRequiresFullBuyValue(t *testing.T) {
	f := newAuctionFixture()
	f.buyerBroker.Credit = 1000

	result, _ := f.enterBuy(100, 15500)

	assert.Equal(t, OutcomeNotEnoughCredit, result.Outcome)
	assert.Equal(t, int64(1000), f.buyerBroker.Credit)
	assert.True(t, f.sec.OrderBook.IsEmpty(BUY))
}

func TestIcebergTradesFullQuantityInUncross(t *testing.T) {
	f := newAuctionFixture()
	f.enter(EnterOrder{
		Side: SELL, Quantity: 500, Price: 100, PeakSize: 100,
		Broker: f.sellerBroker, Shareholder: f.seller,
	})
	f.enterBuy(500, 100)

	result, _ := f.sec.ChangeMatchingState(ContinuousState)

	require.NotNil(t, result)
	require.Len(t, result.Trades, 5)
	assert.Equal(t, int64(500), result.TradedQuantity())
	assert.True(t, f.sec.OrderBook.IsEmpty(SELL))
	assert.True(t, f.sec.OrderBook.IsEmpty(BUY))
}

func TestUncrossActivatesTriggeredStopOrders(t *testing.T) {
	f := newFixture()
	f.sec.LastTradedPrice = 100
	f.enter(EnterOrder{
		Side: SELL, Quantity: 10, Price: 90, StopPrice: 95,
		Broker: f.sellerBroker, Shareholder: f.seller,
	})
	require.Equal(t, 1, f.sec.StopOrderBook.Size(SELL))

	f.sec.ChangeMatchingState(AuctionState)
	f.enterBuy(50, 95)
	f.enterSell(50, 95)

	result, activations := f.sec.ChangeMatchingState(ContinuousState)

	require.NotNil(t, result)
	require.Len(t, result.Trades, 1)
	assert.Equal(t, int64(95), f.sec.LastTradedPrice)

	require.Len(t, activations, 1)
	assert.True(t, activations[0].Result.Activated)
	assert.Equal(t, 0, f.sec.StopOrderBook.Size(SELL))

	converted := f.sec.OrderBook.First(SELL)
	require.NotNil(t, converted)
	assert.Equal(t, LIMIT, converted.Type)
	assert.Equal(t, int64(90), converted.Price)
	assert.Equal(t, int64(10), converted.Quantity)
}
