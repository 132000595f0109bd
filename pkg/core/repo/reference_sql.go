package repo

import (
	"context"

	"gorm.io/gorm"
)

type ReferenceSQLRepo struct {
	db *gorm.DB
}

func NewReferenceSQLRepo(db *gorm.DB) *ReferenceSQLRepo {
	return &ReferenceSQLRepo{
		db: db,
	}
}

func (r *ReferenceSQLRepo) dbWithContext(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *ReferenceSQLRepo) Securities(ctx context.Context) ([]*SecurityRecord, error) {
	var records []*SecurityRecord
	return records, r.dbWithContext(ctx).Find(&records).Error
}

func (r *ReferenceSQLRepo) Brokers(ctx context.Context) ([]*BrokerRecord, error) {
	var records []*BrokerRecord
	return records, r.dbWithContext(ctx).Find(&records).Error
}

func (r *ReferenceSQLRepo) Shareholders(ctx context.Context) ([]*ShareholderRecord, error) {
	var records []*ShareholderRecord
	return records, r.dbWithContext(ctx).Find(&records).Error
}

func (r *ReferenceSQLRepo) Positions(ctx context.Context) ([]*PositionRecord, error) {
	var records []*PositionRecord
	return records, r.dbWithContext(ctx).Find(&records).Error
}
