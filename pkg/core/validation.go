package core

import (
	"github.com/openvenue/matching-core/pkg/matching"
)

// Rule is one independent entry check. Check returns the rejection reasons
// it found, empty when the request passes.
type Rule interface {
	Check(rq *AddOrderRequest, sec *matching.Security) []string
}

func defaultRules() []Rule {
	return []Rule{
		&quantityRule{},
		&priceRule{},
		&lotSizeRule{},
		&tickSizeRule{},
		&minExecQtyRule{},
		&icebergRule{},
		&stopRule{},
	}
}

type quantityRule struct{}

func (quantityRule) Check(rq *AddOrderRequest, _ *matching.Security) []string {
	if rq.Quantity <= 0 {
		return []string{ReasonInvalidQuantity}
	}
	return nil
}

type priceRule struct{}

func (priceRule) Check(rq *AddOrderRequest, _ *matching.Security) []string {
	if rq.Price <= 0 {
		return []string{ReasonInvalidPrice}
	}
	return nil
}

type lotSizeRule struct{}

func (lotSizeRule) Check(rq *AddOrderRequest, sec *matching.Security) []string {
	if rq.Quantity > 0 && rq.Quantity%sec.LotSize != 0 {
		return []string{ReasonQuantityNotLotMultiple}
	}
	return nil
}

type tickSizeRule struct{}

func (tickSizeRule) Check(rq *AddOrderRequest, sec *matching.Security) []string {
	if rq.Price > 0 && rq.Price%sec.TickSize != 0 {
		return []string{ReasonPriceNotTickMultiple}
	}
	return nil
}

type minExecQtyRule struct{}

func (minExecQtyRule) Check(rq *AddOrderRequest, _ *matching.Security) []string {
	if rq.MinExecQty < 0 || rq.MinExecQty > rq.Quantity {
		return []string{ReasonInvalidMinExecQty}
	}
	return nil
}

type icebergRule struct{}

func (icebergRule) Check(rq *AddOrderRequest, _ *matching.Security) []string {
	if rq.PeakSize < 0 || rq.PeakSize > rq.Quantity {
		return []string{ReasonInvalidPeakSize}
	}
	return nil
}

// stopRule rejects stop orders combined with the features they cannot carry.
type stopRule struct{}

func (stopRule) Check(rq *AddOrderRequest, _ *matching.Security) []string {
	if rq.StopPrice < 0 {
		return []string{ReasonInvalidStopPrice}
	}
	if rq.StopPrice == 0 {
		return nil
	}
	var reasons []string
	if rq.PeakSize > 0 {
		reasons = append(reasons, ReasonStopOrderIsIceberg)
	}
	if rq.MinExecQty > 0 {
		reasons = append(reasons, ReasonStopOrderHasMinExecQty)
	}
	return reasons
}
