package worker

import (
	"context"
	"encoding/json"
	"log"

	_ "github.com/lib/pq"

	"github.com/openvenue/matching-core/pkg/core/repo"
	"github.com/openvenue/matching-core/pkg/event"
	kafkawrapper "github.com/openvenue/matching-core/pkg/kafka_wrapper"
)

// Worker drains the published event stream into postgres so the matching
// path never waits on the database.
type Worker struct {
	events repo.IEvent
	trades repo.ITrade
}

func NewWorker(r repo.IRepo) *Worker {
	return &Worker{
		events: r.Event(),
		trades: r.Trade(),
	}
}

func (w *Worker) StartConsumer(ctx context.Context, cfg kafkawrapper.ConsumerConfig) error {
	group, err := kafkawrapper.NewConsumerGroup(cfg)
	if err != nil {
		return err
	}
	defer group.Close()

	return group.Run(ctx, func(ctx context.Context, msgs []kafkawrapper.Message) error {
		for _, msg := range msgs {
			var ev event.Event
			if err := json.Unmarshal(msg.Value, &ev); err != nil {
				log.Println("unmarshal err", err)
				continue
			}
			if err := w.handleEvent(ctx, &ev); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *Worker) handleEvent(ctx context.Context, ev *event.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := w.events.Create(ctx, &repo.EventRecord{
		EventID:   ev.EventID,
		Type:      string(ev.Type),
		ISIN:      ev.ISIN,
		OrderID:   ev.OrderID,
		RequestID: ev.RequestID,
		Payload:   payload,
		Timestamp: ev.Timestamp,
	}); err != nil {
		return err
	}

	if len(ev.Trades) == 0 {
		return nil
	}
	records := make([]*repo.TradeRecord, 0, len(ev.Trades))
	for _, trade := range ev.Trades {
		records = append(records, &repo.TradeRecord{
			ISIN:        trade.ISIN,
			Price:       trade.Price,
			Quantity:    trade.Quantity,
			BuyOrderID:  trade.BuyOrderID,
			SellOrderID: trade.SellOrderID,
			ExecutedAt:  trade.ExecutedAt,
		})
	}
	_, err = w.trades.BulkCreate(ctx, records)
	return err
}
