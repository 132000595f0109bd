package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvenue/matching-core/pkg/event"
	"github.com/openvenue/matching-core/pkg/matching"
)

const engineISIN = "IRO1TEST0001"

type engineFixture struct {
	engine    *Engine
	publisher *event.InMemoryPublisher
	ctx       context.Context
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	publisher := event.NewInMemoryPublisher()
	engine := NewEngine(publisher, nil)
	engine.RegisterSecurity(engineISIN, 1, 1)
	engine.RegisterBroker("B1", "buyer broker", 100_000_000)
	engine.RegisterBroker("B2", "seller broker", 100_000_000)
	engine.RegisterShareholder("S1", "buyer")
	seller := engine.RegisterShareholder("S2", "seller")
	seller.SetPosition(engineISIN, 1_000_000)
	return &engineFixture{
		engine:    engine,
		publisher: publisher,
		ctx:       context.Background(),
	}
}

func (f *engineFixture) add(rq AddOrderRequest) []*event.Event {
	if rq.ISIN == "" {
		rq.ISIN = engineISIN
	}
	return f.engine.AddOrder(f.ctx, &rq)
}

func (f *engineFixture) buy(requestID string, qty, price int64) []*event.Event {
	return f.add(AddOrderRequest{
		RequestID: requestID, Side: matching.BUY,
		Quantity: qty, Price: price,
		BrokerID: "B1", ShareholderID: "S1",
	})
}

func (f *engineFixture) sell(requestID string, qty, price int64) []*event.Event {
	return f.add(AddOrderRequest{
		RequestID: requestID, Side: matching.SELL,
		Quantity: qty, Price: price,
		BrokerID: "B2", ShareholderID: "S2",
	})
}

func TestAddOrderAcceptedAndQueued(t *testing.T) {
	f := newEngineFixture(t)

	events := f.buy("rq-1", 100, 15000)
	require.Len(t, events, 1)
	assert.Equal(t, event.TypeOrderAccepted, events[0].Type)
	assert.Equal(t, engineISIN, events[0].ISIN)
	assert.Equal(t, "rq-1", events[0].RequestID)
	assert.NotZero(t, events[0].OrderID)

	orderID, ok := f.engine.Requests().OrderID("rq-1")
	require.True(t, ok)
	assert.Equal(t, events[0].OrderID, orderID)
}

func TestAddOrderExecutionPublishesTrades(t *testing.T) {
	f := newEngineFixture(t)
	f.sell("rq-s", 100, 15000)
	f.publisher.Reset()

	events := f.buy("rq-b", 100, 15000)
	require.Len(t, events, 2)
	assert.Equal(t, event.TypeOrderAccepted, events[0].Type)
	assert.Equal(t, event.TypeOrderExecuted, events[1].Type)
	require.Len(t, events[1].Trades, 1)
	assert.Equal(t, int64(15000), events[1].Trades[0].Price)
	assert.Equal(t, int64(100), events[1].Trades[0].Quantity)

	published := f.publisher.Events()
	require.Len(t, published, 2)
	assert.Equal(t, events[0].EventID, published[0].EventID)
}

func TestAddOrderUnknownEntitiesRejected(t *testing.T) {
	f := newEngineFixture(t)

	events := f.add(AddOrderRequest{
		RequestID: "rq-1", ISIN: "XX00000000", Side: matching.BUY,
		Quantity: 100, Price: 15000,
		BrokerID: "nope", ShareholderID: "nope",
	})
	require.Len(t, events, 1)
	assert.Equal(t, event.TypeOrderRejected, events[0].Type)
	assert.Contains(t, events[0].Reasons, ReasonUnknownSecurity)
	assert.Contains(t, events[0].Reasons, ReasonUnknownBroker)
	assert.Contains(t, events[0].Reasons, ReasonUnknownShareholder)
}

func TestAddOrderNegativeOrderIDRejected(t *testing.T) {
	f := newEngineFixture(t)

	events := f.add(AddOrderRequest{
		RequestID: "rq-1", OrderID: -5, Side: matching.BUY,
		Quantity: 100, Price: 15000,
		BrokerID: "B1", ShareholderID: "S1",
	})
	require.Len(t, events, 1)
	assert.Equal(t, event.TypeOrderRejected, events[0].Type)
	assert.Contains(t, events[0].Reasons, ReasonInvalidOrderID)
}

func TestDuplicateRequestIDRejected(t *testing.T) {
	f := newEngineFixture(t)
	f.buy("rq-1", 100, 15000)

	events := f.buy("rq-1", 50, 15100)
	require.Len(t, events, 1)
	assert.Equal(t, event.TypeOrderRejected, events[0].Type)
	assert.Contains(t, events[0].Reasons, ReasonDuplicateRequestID)
}

func TestInsufficientCreditRejection(t *testing.T) {
	f := newEngineFixture(t)
	f.engine.RegisterBroker("B3", "poor broker", 10)

	events := f.add(AddOrderRequest{
		RequestID: "rq-1", Side: matching.BUY,
		Quantity: 100, Price: 15000,
		BrokerID: "B3", ShareholderID: "S1",
	})
	require.Len(t, events, 1)
	assert.Equal(t, event.TypeOrderRejected, events[0].Type)
	assert.Contains(t, events[0].Reasons, ReasonNotEnoughCredit)

	_, tracked := f.engine.Requests().OrderID("rq-1")
	assert.False(t, tracked)
}

func TestCancelOrderResolvesOrigRequestID(t *testing.T) {
	f := newEngineFixture(t)
	accepted := f.buy("rq-1", 100, 15000)
	orderID := accepted[0].OrderID

	events := f.engine.CancelOrder(f.ctx, &CancelOrderRequest{
		RequestID: "rq-2", OrigRequestID: "rq-1",
		ISIN: engineISIN, Side: matching.BUY,
	})
	require.Len(t, events, 1)
	assert.Equal(t, event.TypeOrderDeleted, events[0].Type)
	assert.Equal(t, orderID, events[0].OrderID)

	_, ok := f.engine.Requests().OrderID("rq-1")
	assert.False(t, ok)
}

func TestCancelUnknownOrderRejected(t *testing.T) {
	f := newEngineFixture(t)

	events := f.engine.CancelOrder(f.ctx, &CancelOrderRequest{
		RequestID: "rq-1", ISIN: engineISIN,
		Side: matching.BUY, OrderID: 404,
	})
	require.Len(t, events, 1)
	assert.Equal(t, event.TypeOrderRejected, events[0].Type)
	assert.Contains(t, events[0].Reasons, ReasonOrderNotFound)
}

func TestModifyOrderChainsRequestIDs(t *testing.T) {
	f := newEngineFixture(t)
	accepted := f.buy("rq-1", 100, 15000)
	orderID := accepted[0].OrderID

	events := f.engine.ModifyOrder(f.ctx, &ModifyOrderRequest{
		RequestID: "rq-2", OrigRequestID: "rq-1",
		ISIN: engineISIN, Side: matching.BUY,
		Quantity: 100, Price: 15100,
	})
	require.Len(t, events, 1)
	assert.Equal(t, event.TypeOrderUpdated, events[0].Type)
	assert.Equal(t, orderID, events[0].OrderID)

	resolved, ok := f.engine.Requests().OrderID("rq-2")
	require.True(t, ok)
	assert.Equal(t, orderID, resolved)
	assert.Equal(t, "rq-2", f.engine.Requests().LatestRequestID(orderID))
}

func TestModifyRejectionMapsMatchingError(t *testing.T) {
	f := newEngineFixture(t)
	f.buy("rq-1", 100, 15000)

	events := f.engine.ModifyOrder(f.ctx, &ModifyOrderRequest{
		RequestID: "rq-2", OrigRequestID: "rq-1",
		ISIN: engineISIN, Side: matching.BUY,
		Quantity: 100, Price: 15100, MinExecQty: 10,
	})
	require.Len(t, events, 1)
	assert.Equal(t, event.TypeOrderRejected, events[0].Type)
	assert.Contains(t, events[0].Reasons, ReasonCannotChangeMinExecQty)
}

func TestModifyWithInvalidQuantityRejected(t *testing.T) {
	f := newEngineFixture(t)
	accepted := f.buy("rq-1", 100, 15000)
	orderID := accepted[0].OrderID

	events := f.engine.ModifyOrder(f.ctx, &ModifyOrderRequest{
		RequestID: "rq-2", OrigRequestID: "rq-1",
		ISIN: engineISIN, Side: matching.BUY,
		Quantity: 0, Price: 15000,
	})
	require.Len(t, events, 1)
	assert.Equal(t, event.TypeOrderRejected, events[0].Type)
	assert.Contains(t, events[0].Reasons, ReasonInvalidQuantity)

	resolved, ok := f.engine.Requests().OrderID("rq-1")
	require.True(t, ok)
	assert.Equal(t, orderID, resolved)
}

func TestAuctionLifecyclePublishesUncross(t *testing.T) {
	f := newEngineFixture(t)
	f.engine.ChangeMatchingState(f.ctx, &ChangeStateRequest{ISIN: engineISIN, Target: matching.AuctionState})

	queued := f.buy("rq-b", 100, 15000)
	require.Len(t, queued, 2)
	assert.Equal(t, event.TypeOrderAccepted, queued[0].Type)
	assert.Equal(t, event.TypeOpeningPriceComputed, queued[1].Type)
	f.sell("rq-s", 100, 15000)

	events := f.engine.ChangeMatchingState(f.ctx, &ChangeStateRequest{ISIN: engineISIN, Target: matching.ContinuousState})
	require.Len(t, events, 2)
	assert.Equal(t, event.TypeStateChanged, events[0].Type)
	assert.Equal(t, string(matching.ContinuousState), events[0].State)
	assert.Equal(t, event.TypeTradeExecuted, events[1].Type)
	require.Len(t, events[1].Trades, 1)
	assert.Equal(t, int64(15000), events[1].Trades[0].Price)
	assert.Equal(t, int64(100), events[1].Trades[0].Quantity)
}

func TestStopActivationPublishesActivationEvents(t *testing.T) {
	f := newEngineFixture(t)
	f.sell("rq-seed", 10, 100)
	f.buy("rq-last", 10, 100)

	f.add(AddOrderRequest{
		RequestID: "rq-stop", Side: matching.SELL,
		Quantity: 10, Price: 90, StopPrice: 95,
		BrokerID: "B2", ShareholderID: "S2",
	})

	f.buy("rq-bid", 10, 95)
	events := f.sell("rq-trigger", 10, 95)

	var types []event.Type
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	assert.Contains(t, types, event.TypeOrderActivated)
}
