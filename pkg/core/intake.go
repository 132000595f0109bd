package core

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	kafkawrapper "github.com/openvenue/matching-core/pkg/kafka_wrapper"
	"github.com/openvenue/matching-core/pkg/logging"
)

// Request kinds accepted on the order topic.
const (
	RequestTypeAdd    = "add_order"
	RequestTypeCancel = "cancel_order"
	RequestTypeModify = "modify_order"
	RequestTypeState  = "change_state"
)

// Envelope is the wire form of one order-entry request.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Intake consumes order-entry requests from kafka and feeds the engine.
// Messages are keyed by ISIN upstream so one instrument never spans
// partitions, which keeps request processing ordered per instrument.
type Intake struct {
	engine *Engine
	group  *kafkawrapper.ConsumerGroup
	log    *logging.Logger
}

func NewIntake(engine *Engine, cfg kafkawrapper.ConsumerConfig, log *logging.Logger) (*Intake, error) {
	// one worker: concurrent batches would reorder requests within an
	// instrument and break replay determinism
	cfg.WorkerCount = 1
	group, err := kafkawrapper.NewConsumerGroup(cfg)
	if err != nil {
		return nil, err
	}
	return &Intake{
		engine: engine,
		group:  group,
		log:    log,
	}, nil
}

func (i *Intake) Run(ctx context.Context) error {
	return i.group.Run(ctx, i.handleBatch)
}

func (i *Intake) Close() error {
	return i.group.Close()
}

func (i *Intake) handleBatch(ctx context.Context, msgs []kafkawrapper.Message) error {
	for _, msg := range msgs {
		if err := i.dispatch(ctx, msg.Value); err != nil {
			return err
		}
	}
	return nil
}

func (i *Intake) dispatch(ctx context.Context, raw []byte) error {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode request envelope: %w", err)
	}

	switch env.Type {
	case RequestTypeAdd:
		var rq AddOrderRequest
		if err := json.Unmarshal(env.Payload, &rq); err != nil {
			return fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		i.engine.AddOrder(ctx, &rq)
	case RequestTypeCancel:
		var rq CancelOrderRequest
		if err := json.Unmarshal(env.Payload, &rq); err != nil {
			return fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		i.engine.CancelOrder(ctx, &rq)
	case RequestTypeModify:
		var rq ModifyOrderRequest
		if err := json.Unmarshal(env.Payload, &rq); err != nil {
			return fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		i.engine.ModifyOrder(ctx, &rq)
	case RequestTypeState:
		var rq ChangeStateRequest
		if err := json.Unmarshal(env.Payload, &rq); err != nil {
			return fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		i.engine.ChangeMatchingState(ctx, &rq)
	default:
		if i.log != nil {
			i.log.Warn(ctx, "unknown request type", zap.String("type", env.Type))
		}
	}
	return nil
}
