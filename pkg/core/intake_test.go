package core

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvenue/matching-core/pkg/event"
	kafkawrapper "github.com/openvenue/matching-core/pkg/kafka_wrapper"
	"github.com/openvenue/matching-core/pkg/matching"
)

func envelope(t *testing.T, kind string, payload any) kafkawrapper.Message {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	raw, err := json.Marshal(Envelope{Type: kind, Payload: body})
	require.NoError(t, err)
	return kafkawrapper.Message{Value: raw}
}

func TestIntakeForcesSingleWorker(t *testing.T) {
	in, err := NewIntake(nil, kafkawrapper.ConsumerConfig{
		Brokers:     []string{"localhost:9092"},
		GroupID:     "engine",
		Topic:       "orders",
		WorkerCount: 8,
	}, nil)
	require.NoError(t, err)
	defer in.Close()

	assert.Equal(t, 1, in.group.WorkerCount())
}

func TestIntakeBatchDispatchesSequentially(t *testing.T) {
	f := newEngineFixture(t)
	in := &Intake{engine: f.engine}

	batch := []kafkawrapper.Message{
		envelope(t, RequestTypeAdd, AddOrderRequest{
			RequestID: "rq-s", ISIN: engineISIN, Side: matching.SELL,
			Quantity: 100, Price: 15000,
			BrokerID: "B2", ShareholderID: "S2",
		}),
		envelope(t, RequestTypeAdd, AddOrderRequest{
			RequestID: "rq-b", ISIN: engineISIN, Side: matching.BUY,
			Quantity: 100, Price: 15000,
			BrokerID: "B1", ShareholderID: "S1",
		}),
		envelope(t, RequestTypeCancel, CancelOrderRequest{
			RequestID: "rq-c", OrigRequestID: "rq-b",
			ISIN: engineISIN, Side: matching.BUY,
		}),
	}
	require.NoError(t, in.handleBatch(f.ctx, batch))

	published := f.publisher.Events()
	require.NotEmpty(t, published)

	var types []event.Type
	for _, ev := range published {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []event.Type{
		event.TypeOrderAccepted,
		event.TypeOrderAccepted,
		event.TypeOrderExecuted,
		event.TypeOrderRejected,
	}, types)
}

func TestIntakeRejectsMalformedEnvelope(t *testing.T) {
	in := &Intake{engine: nil}
	err := in.dispatch(context.Background(), []byte("{not json"))
	assert.Error(t, err)
}
