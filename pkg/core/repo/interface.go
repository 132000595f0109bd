package repo

import "context"

type IReference interface {
	Securities(ctx context.Context) ([]*SecurityRecord, error)
	Brokers(ctx context.Context) ([]*BrokerRecord, error)
	Shareholders(ctx context.Context) ([]*ShareholderRecord, error)
	Positions(ctx context.Context) ([]*PositionRecord, error)
}

type IEvent interface {
	Create(ctx context.Context, record *EventRecord) (*EventRecord, error)
	BulkCreate(ctx context.Context, records []*EventRecord) ([]*EventRecord, error)
}

type ITrade interface {
	Create(ctx context.Context, record *TradeRecord) (*TradeRecord, error)
	BulkCreate(ctx context.Context, records []*TradeRecord) ([]*TradeRecord, error)
}
