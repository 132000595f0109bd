package event

import (
	"context"
	"sync"

	kafkawrapper "github.com/openvenue/matching-core/pkg/kafka_wrapper"
)

// Publisher delivers engine events to the outside world.
type Publisher interface {
	Publish(ctx context.Context, ev *Event) error
}

// KafkaPublisher writes events to a single topic, keyed by ISIN so every
// instrument's events stay ordered within one partition.
type KafkaPublisher struct {
	producer *kafkawrapper.Producer
	topic    string
}

func NewKafkaPublisher(producer *kafkawrapper.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev *Event) error {
	return p.producer.PublishJSON(ctx, p.topic, ev.ISIN, ev, nil)
}

// InMemoryPublisher collects events for tests and the benchmark driver.
type InMemoryPublisher struct {
	mu     sync.Mutex
	events []*Event
}

func NewInMemoryPublisher() *InMemoryPublisher {
	return &InMemoryPublisher{}
}

func (p *InMemoryPublisher) Publish(_ context.Context, ev *Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *InMemoryPublisher) Events() []*Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Event, len(p.events))
	copy(out, p.events)
	return out
}

func (p *InMemoryPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
