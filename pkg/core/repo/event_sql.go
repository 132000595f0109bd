package repo

import (
	"context"

	"gorm.io/gorm"
)

type EventSQLRepo struct {
	db *gorm.DB
}

func NewEventSQLRepo(db *gorm.DB) *EventSQLRepo {
	return &EventSQLRepo{
		db: db,
	}
}

func (r *EventSQLRepo) dbWithContext(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *EventSQLRepo) Create(ctx context.Context, record *EventRecord) (*EventRecord, error) {
	return record, r.dbWithContext(ctx).Create(record).Error
}

func (r *EventSQLRepo) BulkCreate(ctx context.Context, records []*EventRecord) ([]*EventRecord, error) {
	return records, r.dbWithContext(ctx).Create(records).Error
}
