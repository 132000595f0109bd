package core

import (
	"github.com/openvenue/matching-core/pkg/event"
	"github.com/openvenue/matching-core/pkg/matching"
)

var outcomeReasons = map[matching.MatchingOutcome]string{
	matching.OutcomeNotEnoughCredit:                     ReasonNotEnoughCredit,
	matching.OutcomeNotEnoughPositions:                  ReasonNotEnoughPositions,
	matching.OutcomeNotEnoughTradedQuantity:             ReasonNotEnoughTradedQuantity,
	matching.OutcomeStopOrdersCannotEnterAuctions:       ReasonStopOrderInAuction,
	matching.OutcomeOrdersInAuctionCannotHaveMinExecQty: ReasonMinExecQtyInAuction,
}

func publishedTrades(trades []*matching.Trade) []event.Trade {
	out := make([]event.Trade, 0, len(trades))
	for _, t := range trades {
		out = append(out, event.Trade{
			ISIN:        t.ISIN,
			Price:       t.Price,
			Quantity:    t.Quantity,
			BuyOrderID:  t.Buy.ID,
			SellOrderID: t.Sell.ID,
			ExecutedAt:  t.ExecutedAt,
		})
	}
	return out
}

func rejectedEvent(isin, requestID string, orderID int64, reasons ...string) *event.Event {
	ev := event.New(event.TypeOrderRejected, isin)
	ev.RequestID = requestID
	ev.OrderID = orderID
	ev.Reasons = reasons
	return ev
}

func acceptedEvent(t event.Type, isin, requestID string, orderID int64) *event.Event {
	ev := event.New(t, isin)
	ev.RequestID = requestID
	ev.OrderID = orderID
	return ev
}

func executedEvent(isin, requestID string, orderID int64, trades []*matching.Trade) *event.Event {
	ev := event.New(event.TypeOrderExecuted, isin)
	ev.RequestID = requestID
	ev.OrderID = orderID
	ev.Trades = publishedTrades(trades)
	return ev
}

func openingPriceEvent(isin string, result *matching.MatchResult) *event.Event {
	ev := event.New(event.TypeOpeningPriceComputed, isin)
	ev.OpeningPrice = result.OpeningPrice
	ev.TradableQuantity = result.TradableQuantity
	return ev
}

// resultEvents translates one matching attempt plus its stop cascade into the
// outbound event sequence.
func resultEvents(isin, requestID string, orderID int64, accepted event.Type, result *matching.MatchResult, activations []*matching.StopActivation) []*event.Event {
	if reason, ok := outcomeReasons[result.Outcome]; ok {
		return []*event.Event{rejectedEvent(isin, requestID, orderID, reason)}
	}

	events := []*event.Event{acceptedEvent(accepted, isin, requestID, orderID)}
	if result.Outcome == matching.OutcomeQueuedInAuction {
		events = append(events, openingPriceEvent(isin, result))
		return events
	}
	if result.HasTrades() {
		events = append(events, executedEvent(isin, requestID, orderID, result.Trades))
	}
	for _, act := range activations {
		events = append(events, activationEvents(isin, act)...)
	}
	return events
}

func activationEvents(isin string, act *matching.StopActivation) []*event.Event {
	events := []*event.Event{acceptedEvent(event.TypeOrderActivated, isin, "", act.StopOrderID)}
	if reason, ok := outcomeReasons[act.Result.Outcome]; ok {
		// activation itself can be refused by the controls; the activation
		// still happened and must be reported before the refusal
		return append(events, rejectedEvent(isin, "", act.StopOrderID, reason))
	}
	if act.Result.HasTrades() {
		events = append(events, executedEvent(isin, "", act.StopOrderID, act.Result.Trades))
	}
	return events
}
