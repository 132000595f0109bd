package repo

import (
	"gorm.io/gorm"
)

type IRepo interface {
	Reference() IReference
	Event() IEvent
	Trade() ITrade
}

type Repo struct {
	engineDB *gorm.DB
}

func NewRepo(engineDB *gorm.DB) IRepo {
	return &Repo{
		engineDB: engineDB,
	}
}

func (r *Repo) Reference() IReference {
	return NewReferenceSQLRepo(r.engineDB)
}

func (r *Repo) Event() IEvent {
	return NewEventSQLRepo(r.engineDB)
}

func (r *Repo) Trade() ITrade {
	return NewTradeSQLRepo(r.engineDB)
}
