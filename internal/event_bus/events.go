package event_bus

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	FootprintRecordedType EventType = "footprint.recorded"
	FootprintDeletedType  EventType = "footprint.deleted"
)

// FootprintRecorded is published after a travel, food or energy record is stored.
type FootprintRecorded struct {
	RecordId int
	UserId   int
	UserUid  string
	Category string
	Co2Kg    decimal.Decimal
	Date     time.Time
}

type FootprintDeleted struct {
	RecordId int
	UserId   int
	UserUid  string
	Category string
}

func (FootprintRecorded) EventType() EventType { return FootprintRecordedType }

func (FootprintDeleted) EventType() EventType { return FootprintDeletedType }
