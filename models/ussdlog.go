package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// USSD interaction statuses.
const (
	UssdStatusReceived = "RECEIVED"
	UssdStatusSent     = "SENT"
	UssdStatusPushSent = "PUSH_SENT"
	UssdStatusError    = "ERROR"
)

// USSDLog is an append-only record of every USSD/push interaction.
type USSDLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Phone     string    `gorm:"size:20;index;not null" json:"phone"`
	Request   string    `gorm:"type:text" json:"request"`
	Response  string    `gorm:"type:text" json:"response"`
	Status    string    `gorm:"size:20;not null" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (l *USSDLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
