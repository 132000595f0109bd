package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvenue/matching-core/pkg/event"
	"github.com/openvenue/matching-core/pkg/matching"
)

func TestActivationEventsReportActivationBeforeRefusal(t *testing.T) {
	act := &matching.StopActivation{StopOrderID: 7, Result: matching.NotEnoughCredit()}

	events := activationEvents(engineISIN, act)

	require.Len(t, events, 2)
	assert.Equal(t, event.TypeOrderActivated, events[0].Type)
	assert.Equal(t, int64(7), events[0].OrderID)
	assert.Equal(t, event.TypeOrderRejected, events[1].Type)
	assert.Equal(t, int64(7), events[1].OrderID)
	assert.Contains(t, events[1].Reasons, ReasonNotEnoughCredit)
}

func TestActivationEventsCarryTrades(t *testing.T) {
	act := &matching.StopActivation{
		StopOrderID: 8,
		Result: matching.Executed(nil, []*matching.Trade{
			{ISIN: engineISIN, Price: 15000, Quantity: 10},
		}, 15000, true),
	}

	events := activationEvents(engineISIN, act)

	require.Len(t, events, 2)
	assert.Equal(t, event.TypeOrderActivated, events[0].Type)
	assert.Equal(t, event.TypeOrderExecuted, events[1].Type)
	require.Len(t, events[1].Trades, 1)
	assert.Equal(t, int64(15000), events[1].Trades[0].Price)
}
