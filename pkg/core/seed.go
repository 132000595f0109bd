package core

import (
	"context"

	"github.com/openvenue/matching-core/pkg/core/repo"
)

// Seed loads reference data into the engine: instruments, brokers with their
// credit lines, shareholders and their per-instrument positions.
func Seed(ctx context.Context, e *Engine, r repo.IRepo) error {
	securities, err := r.Reference().Securities(ctx)
	if err != nil {
		return err
	}
	for _, rec := range securities {
		e.RegisterSecurity(rec.ISIN, rec.TickSize, rec.LotSize)
	}

	brokers, err := r.Reference().Brokers(ctx)
	if err != nil {
		return err
	}
	for _, rec := range brokers {
		e.RegisterBroker(rec.BrokerID, rec.Name, rec.Credit)
	}

	shareholders, err := r.Reference().Shareholders(ctx)
	if err != nil {
		return err
	}
	for _, rec := range shareholders {
		e.RegisterShareholder(rec.ShareholderID, rec.Name)
	}

	positions, err := r.Reference().Positions(ctx)
	if err != nil {
		return err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, rec := range positions {
		if shareholder, ok := e.shareholders[rec.ShareholderID]; ok {
			shareholder.SetPosition(rec.ISIN, rec.Quantity)
		}
	}
	return nil
}
