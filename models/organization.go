package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization groups users and farms (cooperatives, NGOs, government
// departments). Deletion is refused while dependent rows exist.
type Organization struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:150;not null" json:"name"`
	Type         string    `gorm:"size:50" json:"type"`
	Country      string    `gorm:"size:80" json:"country"`
	ContactEmail string    `gorm:"size:100" json:"contactEmail"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Users []User `gorm:"foreignKey:OrganizationID" json:"users,omitempty"`
	Farms []Farm `gorm:"foreignKey:OrganizationID" json:"farms,omitempty"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}
