package repo

import "time"

type SecurityRecord struct {
	ISIN     string `gorm:"primaryKey;column:isin"`
	TickSize int64
	LotSize  int64
}

func (SecurityRecord) TableName() string { return "securities" }

type BrokerRecord struct {
	BrokerID string `gorm:"primaryKey"`
	Name     string
	Credit   int64
}

func (BrokerRecord) TableName() string { return "brokers" }

type ShareholderRecord struct {
	ShareholderID string `gorm:"primaryKey"`
	Name          string
}

func (ShareholderRecord) TableName() string { return "shareholders" }

type PositionRecord struct {
	ShareholderID string `gorm:"primaryKey"`
	ISIN          string `gorm:"primaryKey;column:isin"`
	Quantity      int64
}

func (PositionRecord) TableName() string { return "positions" }

type EventRecord struct {
	EventID   string `gorm:"primaryKey"`
	Type      string
	ISIN      string `gorm:"column:isin"`
	OrderID   int64
	RequestID string
	Payload   []byte `gorm:"type:jsonb"`
	Timestamp time.Time
}

func (EventRecord) TableName() string { return "order_events" }

type TradeRecord struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	ISIN        string `gorm:"column:isin"`
	Price       int64
	Quantity    int64
	BuyOrderID  int64
	SellOrderID int64
	ExecutedAt  time.Time
}

func (TradeRecord) TableName() string { return "trades" }
